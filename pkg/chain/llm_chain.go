package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ilkoid/kimono-ai/pkg/events"
	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

// LLMChain — элементарная цепочка: форматтер плюс один вызов модели.
//
// Ошибки форматирования (MissingVariable, MalformedTemplate) ловятся
// до обращения к модели: невалидный вызов не тратит токены.
type LLMChain struct {
	provider  llm.Provider
	formatter *prompt.Formatter
	opts      callOptions
}

// NewLLMChain собирает цепочку из провайдера и форматтера.
func NewLLMChain(provider llm.Provider, formatter *prompt.Formatter, opts ...Option) (*LLMChain, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is nil", ErrChain)
	}
	if formatter == nil {
		return nil, fmt.Errorf("%w: formatter is nil", ErrChain)
	}

	o := defaultCallOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink != nil {
		if _, ok := provider.(llm.StreamingProvider); !ok {
			return nil, fmt.Errorf("%w: streaming sink configured but provider does not stream", ErrChain)
		}
	}

	return &LLMChain{provider: provider, formatter: formatter, opts: o}, nil
}

// InputKeys — переменные форматтера в порядке первого упоминания.
func (c *LLMChain) InputKeys() []string {
	return c.formatter.InputVariables()
}

// OutputKeys — единственный ключ с текстом ответа.
func (c *LLMChain) OutputKeys() []string {
	return []string{c.opts.outputKey}
}

// Call форматирует промпт, делает один вызов модели и возвращает
// текст ответа под выходным ключом.
func (c *LLMChain) Call(ctx context.Context, values prompt.Vars) (prompt.Vars, error) {
	messages, err := c.formatter.FormatMessages(values)
	if err != nil {
		return nil, fmt.Errorf("%w: format prompt: %w", ErrChain, err)
	}

	text, err := c.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	c.opts.emitter.Emit(ctx, events.New(events.EventMessage, events.MessageData{Content: text}))
	return prompt.Vars{c.opts.outputKey: text}, nil
}

// generate выбирает потоковый или обычный путь вызова модели.
func (c *LLMChain) generate(ctx context.Context, messages []llm.Message) (string, error) {
	if c.opts.sink == nil {
		msg, err := c.provider.Generate(ctx, messages, c.opts.generate...)
		if err != nil {
			return "", fmt.Errorf("%w: generate: %w", ErrChain, err)
		}
		return msg.Content, nil
	}

	streamer := c.provider.(llm.StreamingProvider)

	// Финальный текст собирается из самих дельт: что ушло в sink,
	// то и вернётся наружу, байт в байт.
	var assembled strings.Builder
	var sinkErr error

	_, err := streamer.GenerateStream(ctx, messages, func(chunk llm.StreamChunk) error {
		if err := c.opts.sink(chunk); err != nil {
			sinkErr = err
			return err
		}
		assembled.WriteString(chunk.Delta)
		c.opts.emitter.Emit(ctx, events.New(events.EventChunk, events.ChunkData{
			Delta:       chunk.Delta,
			Accumulated: assembled.String(),
		}))
		return nil
	}, c.opts.generate...)

	if sinkErr != nil {
		return "", fmt.Errorf("%w: %w", ErrStreamingSink, sinkErr)
	}
	if err != nil {
		return "", fmt.Errorf("%w: generate stream: %w", ErrChain, err)
	}
	return assembled.String(), nil
}

// Streaming сообщает, настроен ли у цепочки потоковый sink.
func (c *LLMChain) Streaming() bool {
	return c.opts.sink != nil
}

var _ Chain = (*LLMChain)(nil)

// IsStreamingSinkError сообщает, вызван ли провал цепочки ошибкой
// потребителя потока.
func IsStreamingSinkError(err error) bool {
	return errors.Is(err, ErrStreamingSink)
}
