// Package ui реализует Bubble Tea интерфейс чата с агентом.
//
// UI зависит только от интерфейса Runner и шины событий (Port & Adapter):
// за ним может стоять Executor агента или диалоговая цепочка.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kimono-ai/pkg/events"
)

// Runner выполняет один запрос пользователя и возвращает ответ.
//
// Реализуется agent.Executor; для чистого чата подойдёт любая обёртка
// над chain.Conversational.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
}

// resultMsg — финальный результат запуска, прилетает асинхронно.
type resultMsg struct {
	Output string
	Err    error
}

// eventMsg — одно событие из шины выполнения.
type eventMsg events.Event

// MainModel представляет главную модель UI (Bubble Tea Model).
//
// Содержит компоненты TUI:
//   - viewport: область лога чата (только для чтения)
//   - textarea: поле ввода пользователя
type MainModel struct {
	viewport viewport.Model
	textarea textarea.Model

	runner       Runner
	eventSub     events.Subscriber
	currentModel string

	isProcessing bool
	ready        bool

	// лог чата без стилей, до переноса по ширине
	log []string
}

// InitialModel создает начальное состояние UI.
func InitialModel(runner Runner, currentModel string, eventSub events.Subscriber) MainModel {
	ta := textarea.New()
	ta.Placeholder = "Спросите о чём угодно..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Размеры (0,0) обновятся при первом WindowSizeMsg
	vp := viewport.New(0, 0)

	return MainModel{
		textarea:     ta,
		viewport:     vp,
		runner:       runner,
		eventSub:     eventSub,
		currentModel: currentModel,
		log: []string{
			systemMsgStyle("Kimono AI initialized."),
			systemMsgStyle("System ready. Waiting for input..."),
		},
	}
}

// Init запускается один раз при старте Bubble Tea программы.
func (m MainModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitEvent(m.eventSub))
}

// waitEvent читает следующее событие из шины.
func waitEvent(sub events.Subscriber) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}
