// Логика — обрабатывает клавиши, события агента и результаты запусков.

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ilkoid/kimono-ai/pkg/events"
)

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := m.textarea.Height() + 2 // + граница

		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 0 {
			vpHeight = 0
		}

		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(msg.Width)

		m.refreshLog()
		if !m.ready {
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.isProcessing {
				return m, nil
			}

			m.textarea.Reset()
			m.isProcessing = true
			m.appendLog(userMsgStyle("USER > ") + input)

			return m, tea.Batch(tiCmd, vpCmd, runCmd(m.runner, input))
		}

	case eventMsg:
		m.appendEvent(events.Event(msg))
		return m, tea.Batch(tiCmd, vpCmd, waitEvent(m.eventSub))

	case resultMsg:
		if msg.Err != nil {
			m.appendLog(errorMsgStyle("ERROR: ") + msg.Err.Error())
		} else {
			m.appendLog(systemMsgStyle("AI > ") + msg.Output)
		}
		m.isProcessing = false
		m.textarea.Focus()
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

// appendEvent переводит событие выполнения в строку лога.
//
// Дельты стриминга не логируются построчно — финальный текст придёт
// целиком в EventDone/resultMsg.
func (m *MainModel) appendEvent(event events.Event) {
	switch event.Type {
	case events.EventThinking:
		if data, ok := event.Data.(events.ThinkingData); ok {
			m.appendLog(toolMsgStyle(fmt.Sprintf("... thinking (step %d)", data.Iteration)))
		}
	case events.EventToolCall:
		if data, ok := event.Data.(events.ToolCallData); ok {
			m.appendLog(toolMsgStyle(fmt.Sprintf("[tool] %s(%s)", data.ToolName, truncateForLog(data.Input))))
		}
	case events.EventToolResult:
		if data, ok := event.Data.(events.ToolResultData); ok {
			prefix := "[tool] "
			if data.IsError {
				prefix = "[tool error] "
			}
			m.appendLog(toolMsgStyle(prefix + data.ToolName + " → " + truncateForLog(data.Result)))
		}
	case events.EventError:
		if data, ok := event.Data.(events.ErrorData); ok {
			m.appendLog(errorMsgStyle("ERROR: ") + data.Err.Error())
		}
	}
}

// appendLog добавляет строку в лог и прокручивает вниз.
func (m *MainModel) appendLog(str string) {
	m.log = append(m.log, str)
	m.refreshLog()
	m.viewport.GotoBottom()
}

// refreshLog перекладывает лог во вьюпорт с переносом по текущей ширине.
func (m *MainModel) refreshLog() {
	width := m.viewport.Width
	if width <= 0 {
		m.viewport.SetContent(strings.Join(m.log, "\n"))
		return
	}
	wrapped := make([]string, len(m.log))
	for i, line := range m.log {
		wrapped[i] = wordwrap.String(line, width)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
}

// runCmd запускает Runner асинхронно, чтобы не вис UI.
func runCmd(runner Runner, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		output, err := runner.Run(ctx, input)
		return resultMsg{Output: output, Err: err}
	}
}

func truncateForLog(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
