package chain

import (
	"context"
	"fmt"

	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/memory"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

// HistoryKey — имя placeholder-переменной с историей диалога.
const HistoryKey = "history"

// defaultConversationalSystem — системный промпт диалога по умолчанию.
const defaultConversationalSystem = "The following is a friendly conversation between a human and an AI. " +
	"The AI is talkative and provides lots of specific details from its context. " +
	"If the AI does not know the answer to a question, it truthfully says it does not know."

// Conversational — цепочка с памятью диалога.
//
// Перед форматированием история загружается из Memory и подставляется
// в placeholder HistoryKey; после полностью успешного вызова новая пара
// реплик дописывается в память. Любая ошибка (включая отмену контекста)
// оставляет память нетронутой.
type Conversational struct {
	inner    *LLMChain
	memory   memory.Memory
	inputKey string
}

// NewConversational собирает диалоговую цепочку.
//
// Форматтер обязан объявлять placeholder HistoryKey и ровно одну
// обычную переменную — она считается пользовательским вводом.
func NewConversational(provider llm.Provider, mem memory.Memory, formatter *prompt.Formatter, opts ...Option) (*Conversational, error) {
	if mem == nil {
		mem = memory.NewNop()
	}
	if formatter == nil {
		formatter = DefaultConversationalFormatter()
	}

	hasHistory := false
	for _, name := range formatter.Placeholders() {
		if name == HistoryKey {
			hasHistory = true
			break
		}
	}
	if !hasHistory {
		return nil, fmt.Errorf("%w: conversational formatter must declare %q placeholder", ErrChain, HistoryKey)
	}

	var inputKey string
	for _, name := range formatter.InputVariables() {
		if name == HistoryKey {
			continue
		}
		if inputKey != "" {
			return nil, fmt.Errorf("%w: conversational formatter must have exactly one input variable, got %q and %q",
				ErrChain, inputKey, name)
		}
		inputKey = name
	}
	if inputKey == "" {
		return nil, fmt.Errorf("%w: conversational formatter has no input variable", ErrChain)
	}

	inner, err := NewLLMChain(provider, formatter, opts...)
	if err != nil {
		return nil, err
	}

	return &Conversational{inner: inner, memory: mem, inputKey: inputKey}, nil
}

// DefaultConversationalFormatter — системный промпт, история, ввод.
func DefaultConversationalFormatter() *prompt.Formatter {
	return prompt.NewFormatter().
		AddMessage(llm.NewSystemMessage(defaultConversationalSystem)).
		AddPlaceholder(HistoryKey).
		AddTemplate(llm.RoleUser, prompt.MustTemplate("{input}"))
}

// InputKeys — единственный ключ пользовательского ввода.
//
// HistoryKey не входит: историю цепочка подставляет сама.
func (c *Conversational) InputKeys() []string {
	return []string{c.inputKey}
}

// OutputKeys делегируются внутренней цепочке.
func (c *Conversational) OutputKeys() []string {
	return c.inner.OutputKeys()
}

// Call подставляет историю, вызывает модель и фиксирует пару реплик.
func (c *Conversational) Call(ctx context.Context, values prompt.Vars) (prompt.Vars, error) {
	input, ok := values.Text(c.inputKey)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrChain, prompt.MissingVariable(c.inputKey))
	}

	history, err := c.memory.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load memory: %w", ErrChain, err)
	}

	withHistory := values.Clone()
	withHistory[HistoryKey] = history

	out, err := c.inner.Call(ctx, withHistory)
	if err != nil {
		return nil, err
	}

	text, _ := out.Text(c.inner.opts.outputKey)

	// Память пишется только после полного успеха, одной парой.
	if err := c.memory.Save(ctx, llm.NewUserMessage(input), llm.NewAIMessage(text)); err != nil {
		return nil, fmt.Errorf("%w: save memory: %w", ErrChain, err)
	}

	return out, nil
}

var _ Chain = (*Conversational)(nil)
