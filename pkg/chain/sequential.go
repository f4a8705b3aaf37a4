package chain

import (
	"context"
	"fmt"

	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

// Sequential прогоняет переменные через несколько цепочек по порядку.
//
// Выходы каждого звена добавляются в общий набор переменных и видны
// всем последующим звеньям. Согласованность ключей проверяется один
// раз на конструировании: несобираемый конвейер не начинает выполняться.
type Sequential struct {
	chains     []Chain
	inputKeys  []string
	outputKeys []string
}

// NewSequential собирает конвейер из цепочек.
//
// Возвращает ErrKeyMismatch, если входные ключи звена не покрываются
// входами конвейера и выходами предыдущих звеньев, и ErrKeyCollision,
// если звено пишет в уже занятый ключ.
func NewSequential(chains ...Chain) (*Sequential, error) {
	if len(chains) == 0 {
		return nil, fmt.Errorf("%w: sequential chain needs at least one link", ErrChain)
	}

	inputKeys := chains[0].InputKeys()

	available := make(map[string]bool, len(inputKeys))
	for _, key := range inputKeys {
		available[key] = true
	}

	for i, c := range chains {
		for _, key := range c.InputKeys() {
			if !available[key] {
				return nil, fmt.Errorf("%w: link %d requires key %q which no earlier link provides",
					ErrKeyMismatch, i, key)
			}
		}
		for _, key := range c.OutputKeys() {
			if available[key] {
				return nil, fmt.Errorf("%w: link %d writes key %q which is already taken",
					ErrKeyCollision, i, key)
			}
			available[key] = true
		}
	}

	return &Sequential{
		chains:     chains,
		inputKeys:  inputKeys,
		outputKeys: chains[len(chains)-1].OutputKeys(),
	}, nil
}

// InputKeys — входные ключи первого звена.
func (s *Sequential) InputKeys() []string {
	return s.inputKeys
}

// OutputKeys — выходные ключи последнего звена.
func (s *Sequential) OutputKeys() []string {
	return s.outputKeys
}

// Call выполняет звенья по порядку, накапливая переменные.
//
// Результат звена не изменяется слоем композиции: что вернуло
// последнее звено, то и видит вызывающий.
func (s *Sequential) Call(ctx context.Context, values prompt.Vars) (prompt.Vars, error) {
	acc := values.Clone()

	for i, c := range s.chains {
		out, err := c.Call(ctx, acc)
		if err != nil {
			return nil, fmt.Errorf("sequential link %d: %w", i, err)
		}
		for key, value := range out {
			acc[key] = value
		}
	}

	return acc, nil
}

var _ Chain = (*Sequential)(nil)
