// Kimono AI TUI
// Точка входа для интерактивного чата с агентом.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kimono-ai/internal/app"
	"github.com/ilkoid/kimono-ai/internal/ui"
	"github.com/ilkoid/kimono-ai/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "путь к config.yaml")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	utils.Info("Application started")

	a, err := app.New(app.FindConfig(*configPath))
	if err != nil {
		utils.Error("Failed to build app", "error", err)
		return err
	}
	defer a.Close()

	utils.Info("App assembled",
		"model", a.ModelName,
		"tools", a.Registry.Len(),
		"memory", a.Config.Memory.Backend)

	tuiModel := ui.InitialModel(a.Executor, a.ModelName, a.Emitter.Subscribe())

	// Без AltScreen — позволяет выделять текст мышкой и копировать
	p := tea.NewProgram(tuiModel)
	if _, err := p.Run(); err != nil {
		utils.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	utils.Info("Application exited normally")
	return nil
}
