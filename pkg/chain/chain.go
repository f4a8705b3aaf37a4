// Package chain реализует композицию вызовов языковой модели
// в переиспользуемые конвейеры.
//
// Цепочка — это единица работы "переменные на входе, переменные на
// выходе": LLMChain форматирует промпт и делает один вызов модели,
// Sequential склеивает несколько цепочек по ключам, Conversational
// добавляет память диалога. Все цепочки удовлетворяют одному
// интерфейсу Chain, поэтому компонуются свободно.
package chain

import (
	"context"
	"fmt"

	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

// OutputKey — ключ, под которым цепочка кладёт текст ответа модели
// в выходные переменные.
const OutputKey = "text"

// DefaultInputKey — ключ пользовательского ввода в диалоговых цепочках.
const DefaultInputKey = "input"

// Chain — контракт любой цепочки.
//
// Реализация обязана быть чистой по отношению к входным переменным:
// Call не мутирует переданный Vars, а возвращает новый.
type Chain interface {
	// InputKeys возвращает имена переменных, которые цепочка требует.
	InputKeys() []string

	// OutputKeys возвращает имена переменных, которые цепочка пишет.
	OutputKeys() []string

	// Call выполняет цепочку.
	Call(ctx context.Context, values prompt.Vars) (prompt.Vars, error)
}

// Run — удобный запуск цепочки с единственным входом.
//
// Работает только для цепочек с одним входным ключом; текст ответа
// берётся из OutputKey.
func Run(ctx context.Context, c Chain, input string) (string, error) {
	keys := c.InputKeys()
	if len(keys) != 1 {
		return "", fmt.Errorf("%w: Run needs exactly one input key, chain has %d", ErrChain, len(keys))
	}

	out, err := c.Call(ctx, prompt.Vars{keys[0]: input})
	if err != nil {
		return "", err
	}

	text, ok := out.Text(OutputKey)
	if !ok {
		return "", fmt.Errorf("%w: chain output has no %q key", ErrChain, OutputKey)
	}
	return text, nil
}
