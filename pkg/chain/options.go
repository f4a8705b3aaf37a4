package chain

import (
	"github.com/ilkoid/kimono-ai/pkg/events"
	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// callOptions — конфигурация LLMChain, собираемая один раз
// на конструировании.
type callOptions struct {
	outputKey string
	sink      llm.StreamFunc
	emitter   events.Emitter
	generate  []llm.GenerateOption
}

// Option настраивает цепочку.
type Option func(*callOptions)

func defaultCallOptions() callOptions {
	return callOptions{
		outputKey: OutputKey,
		emitter:   events.NopEmitter{},
	}
}

// WithOutputKey меняет ключ, под которым цепочка пишет ответ модели.
func WithOutputKey(key string) Option {
	return func(o *callOptions) {
		o.outputKey = key
	}
}

// WithStreamFunc включает стриминг: каждая порция ответа модели
// передаётся sink в порядке прихода до сборки финального текста.
//
// Ошибка sink фатальна для вызова цепочки (ErrStreamingSink);
// частичный вызов модели бросается, не повторяется.
func WithStreamFunc(sink llm.StreamFunc) Option {
	return func(o *callOptions) {
		o.sink = sink
	}
}

// WithEmitter подключает шину событий выполнения.
func WithEmitter(emitter events.Emitter) Option {
	return func(o *callOptions) {
		o.emitter = emitter
	}
}

// WithGenerateOptions задаёт параметры генерации для всех вызовов
// этой цепочки (модель, температура, max_tokens).
func WithGenerateOptions(opts ...llm.GenerateOption) Option {
	return func(o *callOptions) {
		o.generate = append(o.generate, opts...)
	}
}
