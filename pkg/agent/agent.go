// Package agent реализует цикл think-act-observe поверх цепочек.
//
// ConversationalAgent собирает начальный промпт (системная вводная,
// формат ответа, каталог инструментов, история, задача) и разбирает
// ответы модели в решения. Executor гоняет state machine вокруг него.
package agent

import (
	"fmt"
	"strings"

	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
	"github.com/ilkoid/kimono-ai/pkg/tools"
)

// InputKey — имя переменной с задачей пользователя.
const InputKey = "input"

// ConversationalAgent строит промпт и интерпретирует ответы модели.
//
// Иммутабелен после создания: один агент можно разделять между
// конкурентными запусками Executor.
type ConversationalAgent struct {
	formatter *prompt.Formatter
	parser    *Parser
}

// AgentOption настраивает агента.
type AgentOption func(*agentConfig)

type agentConfig struct {
	systemPrompt string
	taskTemplate string
}

// WithSystemPrompt заменяет вводную часть системного промпта.
func WithSystemPrompt(text string) AgentOption {
	return func(c *agentConfig) {
		c.systemPrompt = text
	}
}

// WithTaskTemplate заменяет шаблон задачи. Обязан содержать {input}.
func WithTaskTemplate(text string) AgentOption {
	return func(c *agentConfig) {
		c.taskTemplate = text
	}
}

// NewConversationalAgent собирает агента над каталогом инструментов.
//
// Каталог фиксируется в промпте на конструировании: регистрация
// инструментов после создания агента на промпт не влияет.
func NewConversationalAgent(registry *tools.Registry, opts ...AgentOption) (*ConversationalAgent, error) {
	cfg := agentConfig{
		systemPrompt: DefaultSystemPrompt,
		taskTemplate: DefaultTaskPrompt,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	instructions, err := prompt.NewTemplate(FormatInstructions)
	if err != nil {
		return nil, fmt.Errorf("format instructions template: %w", err)
	}
	rendered, err := instructions.Render(prompt.Vars{
		"tool_names": strings.Join(registry.Names(), ", "),
		"tools":      registry.Catalogue(),
	})
	if err != nil {
		return nil, fmt.Errorf("render format instructions: %w", err)
	}

	task, err := prompt.NewTemplate(cfg.taskTemplate)
	if err != nil {
		return nil, fmt.Errorf("task template: %w", err)
	}
	if !contains(task.Variables(), InputKey) {
		return nil, fmt.Errorf("task template must reference {%s}", InputKey)
	}

	formatter := prompt.NewFormatter().
		AddMessage(llm.NewSystemMessage(cfg.systemPrompt + "\n\n" + rendered)).
		AddPlaceholder("history").
		AddTemplate(llm.RoleUser, task)

	return &ConversationalAgent{
		formatter: formatter,
		parser:    NewParser(),
	}, nil
}

// InitialMessages строит стартовый промпт запуска.
//
// history может быть nil — тогда placeholder разворачивается в ничто.
func (a *ConversationalAgent) InitialMessages(input string, history []llm.Message) ([]llm.Message, error) {
	return a.formatter.FormatMessages(prompt.Vars{
		InputKey:  input,
		"history": history,
	})
}

// Parse разбирает ответ модели в решение.
func (a *ConversationalAgent) Parse(raw string) (Decision, error) {
	return a.parser.Parse(raw)
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}
