// Package app собирает приложение из библиотечных компонентов:
// конфигурация, провайдер модели, память, инструменты, исполнитель.
package app

import (
	"fmt"
	"os"

	"github.com/ilkoid/kimono-ai/pkg/agent"
	"github.com/ilkoid/kimono-ai/pkg/config"
	"github.com/ilkoid/kimono-ai/pkg/events"
	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/llm/openai"
	"github.com/ilkoid/kimono-ai/pkg/memory"
	"github.com/ilkoid/kimono-ai/pkg/s3storage"
	"github.com/ilkoid/kimono-ai/pkg/tools"
	"github.com/ilkoid/kimono-ai/pkg/tools/std"
)

// DefaultConfigPath используется, когда путь не задан явно.
const DefaultConfigPath = "config.yaml"

// App — собранное приложение.
type App struct {
	Config   *config.AppConfig
	Provider llm.Provider
	Memory   memory.Memory
	Registry *tools.Registry
	Executor *agent.Executor
	Emitter  *events.ChanEmitter

	ModelName string
}

// New загружает конфигурацию и собирает все компоненты.
func New(configPath string) (*App, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	modelDef, ok := cfg.GetChatModel("")
	if !ok {
		return nil, fmt.Errorf("no chat model configured (models.default_chat)")
	}
	provider := openai.NewClient(modelDef)

	mem, err := buildMemory(cfg.Memory)
	if err != nil {
		return nil, err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	ag, err := agent.NewConversationalAgent(registry)
	if err != nil {
		return nil, err
	}

	emitter := events.NewChanEmitter(100)

	executor := agent.NewExecutor(provider, ag, registry,
		agent.WithMemory(mem),
		agent.WithEmitter(emitter),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithParseRetries(cfg.Agent.ParseRetries),
		agent.WithMaxToolErrors(cfg.Agent.MaxToolErrors),
		agent.WithParallelTools(cfg.Agent.Parallel),
		agent.WithTimeout(cfg.Agent.Timeout),
	)

	return &App{
		Config:    cfg,
		Provider:  provider,
		Memory:    mem,
		Registry:  registry,
		Executor:  executor,
		Emitter:   emitter,
		ModelName: modelDef.ModelName,
	}, nil
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.Emitter.Close()
	if closer, ok := a.Memory.(interface{ Close() error }); ok {
		closer.Close()
	}
}

// buildMemory выбирает backend памяти по конфигурации.
func buildMemory(cfg config.MemoryConfig) (memory.Memory, error) {
	switch cfg.Backend {
	case "", "none":
		return memory.NewNop(), nil
	case "buffer":
		return memory.NewBuffer(), nil
	case "window":
		return memory.NewWindow(cfg.WindowSize), nil
	case "sqlite":
		session := cfg.Session
		if session == "" {
			session = "default"
		}
		return memory.NewSQLite(cfg.Path, session)
	default:
		return nil, fmt.Errorf("unknown memory backend: %q", cfg.Backend)
	}
}

// buildRegistry регистрирует стандартные инструменты.
//
// S3 инструменты подключаются только при сконфигурированном хранилище.
func buildRegistry(cfg *config.AppConfig) (*tools.Registry, error) {
	registry, err := tools.NewRegistry(
		std.NewClock(),
		std.NewCommandExecutor().WithDisallowedCommands(
			std.DisallowedCommand{Cmd: "rm", Args: []string{"-rf"}},
		),
	)
	if err != nil {
		return nil, err
	}

	if cfg.S3.Enabled() {
		client, err := s3storage.New(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		if err := registry.Register(std.NewS3List(client)); err != nil {
			return nil, err
		}
		if err := registry.Register(std.NewS3Fetch(client)); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// FindConfig ищет конфиг: явный путь, текущая директория, $HOME/.kimono.
func FindConfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := home + "/.kimono/config.yaml"
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return DefaultConfigPath
}
