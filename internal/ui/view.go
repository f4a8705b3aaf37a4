// Рендер
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m MainModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	status := fmt.Sprintf(" KIMONO AI | MODEL: %s ", m.currentModel)
	if m.isProcessing {
		status += "| WORKING... "
	}

	header := headerStyle.
		Width(m.viewport.Width).
		Render(status)

	borderWidth := m.viewport.Width
	if borderWidth < 1 {
		borderWidth = 1
	}
	border := lipgloss.NewStyle().
		Foreground(grayColor).
		Render(strings.Repeat("─", borderWidth))

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		border,
		m.textarea.View(),
	)
}
