// Форматтер сообщений — упорядоченная композиция узлов шаблона.
package prompt

import (
	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Node — узел форматтера.
//
// Варианты: фиксированное сообщение, шаблонное сообщение,
// placeholder истории. Закрытый интерфейс — только типы этого
// пакета реализуют node().
type Node interface {
	node()
}

// MessageNode — фиксированное сообщение без подстановки.
type MessageNode struct {
	Message llm.Message
}

func (MessageNode) node() {}

// TemplateNode — сообщение, контент которого рендерится из шаблона.
type TemplateNode struct {
	Role     llm.Role
	Template *Template
}

func (TemplateNode) node() {}

// PlaceholderNode — разворачивается в последовательность сообщений,
// лежащую в переменных под именем Variable.
//
// Размер разворачивания определяется только переданным значением;
// порядок сообщений сохраняется в точности.
type PlaceholderNode struct {
	Variable string
}

func (PlaceholderNode) node() {}

// Formatter — упорядоченная последовательность узлов.
//
// Чистая функция от (определение, переменные): не имеет скрытого
// состояния, один экземпляр безопасно обслуживает конкурентные вызовы.
type Formatter struct {
	nodes []Node
}

// NewFormatter создаёт форматтер из узлов.
func NewFormatter(nodes ...Node) *Formatter {
	return &Formatter{nodes: nodes}
}

// FromTemplate оборачивает одиночный шаблон в форматтер
// с одним user-сообщением.
func FromTemplate(t *Template) *Formatter {
	return NewFormatter(TemplateNode{Role: llm.RoleUser, Template: t})
}

// AddMessage добавляет фиксированное сообщение.
func (f *Formatter) AddMessage(msg llm.Message) *Formatter {
	f.nodes = append(f.nodes, MessageNode{Message: msg})
	return f
}

// AddTemplate добавляет шаблонное сообщение.
func (f *Formatter) AddTemplate(role llm.Role, t *Template) *Formatter {
	f.nodes = append(f.nodes, TemplateNode{Role: role, Template: t})
	return f
}

// AddPlaceholder добавляет placeholder истории.
func (f *Formatter) AddPlaceholder(variable string) *Formatter {
	f.nodes = append(f.nodes, PlaceholderNode{Variable: variable})
	return f
}

// Variables возвращает имена переменных всех шаблонных узлов,
// в порядке появления, без дубликатов.
func (f *Formatter) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, n := range f.nodes {
		t, ok := n.(TemplateNode)
		if !ok {
			continue
		}
		for _, name := range t.Template.Variables() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Placeholders возвращает имена placeholder-переменных.
func (f *Formatter) Placeholders() []string {
	var names []string
	for _, n := range f.nodes {
		if p, ok := n.(PlaceholderNode); ok {
			names = append(names, p.Variable)
		}
	}
	return names
}

// InputVariables возвращает все обязательные имена:
// переменные шаблонов плюс placeholder'ы.
func (f *Formatter) InputVariables() []string {
	return append(f.Variables(), f.Placeholders()...)
}

// FormatMessages разворачивает все узлы по порядку.
//
// Длина результата = (число литеральных + шаблонных узлов) +
// сумма размеров развёрнутых placeholder'ов.
//
// Валидация всех обязательных имён выполняется до разворачивания
// первого узла: либо полный результат, либо ErrMissingVariable.
func (f *Formatter) FormatMessages(vars Vars) ([]llm.Message, error) {
	if err := f.validate(vars); err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(f.nodes))
	for _, n := range f.nodes {
		switch t := n.(type) {
		case MessageNode:
			messages = append(messages, t.Message)
		case TemplateNode:
			content, err := t.Template.Render(vars)
			if err != nil {
				return nil, err
			}
			messages = append(messages, llm.Message{Role: t.Role, Content: content})
		case PlaceholderNode:
			history, _ := vars.Messages(t.Variable)
			messages = append(messages, history...)
		}
	}
	return messages, nil
}

// FormatPrompt возвращает результат как Value.
func (f *Formatter) FormatPrompt(vars Vars) (Value, error) {
	messages, err := f.FormatMessages(vars)
	if err != nil {
		return nil, err
	}
	return ChatValue(messages), nil
}

// validate проверяет наличие всех обязательных имён (fail fast).
func (f *Formatter) validate(vars Vars) error {
	for _, name := range f.Variables() {
		if _, ok := vars.Text(name); !ok {
			return MissingVariable(name)
		}
	}
	for _, name := range f.Placeholders() {
		if _, ok := vars.Messages(name); !ok {
			return MissingVariable(name)
		}
	}
	return nil
}
