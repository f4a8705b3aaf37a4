// Загрузка промптов из YAML файлов.
package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// File описывает структуру YAML-файла с промптом.
//
// Пример:
//
//	config:
//	  model: gpt-4o-mini
//	  temperature: 0.2
//	messages:
//	  - role: system
//	    content: "Ты ассистент по имени {name}."
//	  - role: history
//	    variable: history
//	  - role: user
//	    content: "{input}"
type File struct {
	Config   Config        `yaml:"config"`
	Messages []FileMessage `yaml:"messages"`
}

// Config — настройки модели для конкретного промпта.
type Config struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Format      string  `yaml:"format"` // "json_object" или пустая строка
}

// FileMessage — одно сообщение YAML-файла.
//
// role == "history" объявляет placeholder: вместо content указывается
// variable с именем переменной, содержащей сообщения.
type FileMessage struct {
	Role     string `yaml:"role"`
	Content  string `yaml:"content"`
	Variable string `yaml:"variable"`
}

// Load загружает и парсит YAML файл промпта.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	return Parse(data)
}

// Parse парсит YAML содержимое промпта.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}
	if len(f.Messages) == 0 {
		return nil, fmt.Errorf("prompt file has no messages")
	}
	return &f, nil
}

// Formatter собирает Formatter из сообщений файла.
//
// Каждое content-сообщение становится шаблонным узлом; сообщение
// с ролью history — placeholder'ом.
func (f *File) Formatter() (*Formatter, error) {
	fmtr := NewFormatter()
	for i, msg := range f.Messages {
		if msg.Role == "history" {
			variable := msg.Variable
			if variable == "" {
				variable = "history"
			}
			fmtr.AddPlaceholder(variable)
			continue
		}

		role, err := parseRole(msg.Role)
		if err != nil {
			return nil, fmt.Errorf("message #%d: %w", i, err)
		}
		tmpl, err := NewTemplate(msg.Content)
		if err != nil {
			return nil, fmt.Errorf("message #%d (%s): %w", i, msg.Role, err)
		}
		fmtr.AddTemplate(role, tmpl)
	}
	return fmtr, nil
}

// parseRole преобразует строку YAML в llm.Role.
func parseRole(role string) (llm.Role, error) {
	switch role {
	case "system":
		return llm.RoleSystem, nil
	case "user", "human":
		return llm.RoleUser, nil
	case "assistant", "ai":
		return llm.RoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown message role: %q", role)
	}
}
