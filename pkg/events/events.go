// Package events предоставляет интерфейсы для подписки на события
// выполнения цепочек и агента.
//
// Это Port для любых UI (TUI, Web, CLI): библиотечный код зависит от
// интерфейса Emitter, а не от конкретного интерфейса пользователя.
//
// # Basic Usage
//
//	emitter := events.NewChanEmitter(64)
//	executor := agent.NewExecutor(ag, registry, agent.WithEmitter(emitter))
//
//	sub := emitter.Subscribe()
//	for event := range sub.Events() {
//	    switch event.Type {
//	    case events.EventThinking:
//	        ui.showSpinner()
//	    case events.EventChunk:
//	        ui.appendDelta(event.Data)
//	    }
//	}
//
// # Thread Safety
//
// Все реализации интерфейсов должны быть thread-safe.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события.
type EventType string

const (
	// EventThinking отправляется перед очередным обращением к модели.
	EventThinking EventType = "thinking"

	// EventChunk отправляется для каждой порции потокового ответа модели.
	EventChunk EventType = "chunk"

	// EventToolCall отправляется когда агент запускает инструмент.
	EventToolCall EventType = "tool_call"

	// EventToolResult отправляется когда инструмент вернул наблюдение.
	EventToolResult EventType = "tool_result"

	// EventMessage отправляется когда модель сгенерировала сообщение.
	EventMessage EventType = "message"

	// EventError отправляется при ошибке выполнения.
	EventError EventType = "error"

	// EventDone отправляется с финальным ответом.
	EventDone EventType = "done"
)

// EventData — sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс,
// что обеспечивает compile-time type safety.
type EventData interface {
	eventData()
}

// ThinkingData содержит данные для EventThinking.
type ThinkingData struct {
	Iteration int // Номер итерации, начиная с 1
}

func (ThinkingData) eventData() {}

// ChunkData содержит данные для EventChunk.
type ChunkData struct {
	// Delta — инкрементальная порция текста
	Delta string

	// Accumulated — накопленный текст на данный момент
	Accumulated string
}

func (ChunkData) eventData() {}

// ToolCallData содержит данные о вызове инструмента.
type ToolCallData struct {
	ID       string // Идентификатор вызова (для параллельных запусков)
	ToolName string
	Input    string
}

func (ToolCallData) eventData() {}

// ToolResultData содержит наблюдение инструмента.
type ToolResultData struct {
	ID       string
	ToolName string
	Result   string
	IsError  bool
	Duration time.Duration
}

func (ToolResultData) eventData() {}

// MessageData содержит данные для EventMessage и EventDone.
type MessageData struct {
	Content string
}

func (MessageData) eventData() {}

// ErrorData содержит данные для EventError.
type ErrorData struct {
	Err error
}

func (ErrorData) eventData() {}

// Event представляет событие выполнения.
//
// Для каждого EventType существует соответствующий тип данных:
//   - EventThinking: ThinkingData
//   - EventChunk: ChunkData
//   - EventToolCall: ToolCallData
//   - EventToolResult: ToolResultData
//   - EventMessage: MessageData
//   - EventError: ErrorData
//   - EventDone: MessageData
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// Emitter — это Port для отправки событий.
type Emitter interface {
	// Emit отправляет событие.
	//
	// Если context отменён, операция прерывается молча: события —
	// побочный канал, их потеря не должна валить выполнение.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при вызове Close() у владельца.
	Events() <-chan Event

	// Close закрывает подписчика.
	Close()
}

// NopEmitter — заглушка для запусков без подписчиков.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, event Event) {}

var _ Emitter = NopEmitter{}

// New собирает событие с текущей меткой времени.
func New(t EventType, data EventData) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}
