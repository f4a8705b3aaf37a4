// PromptValue — результат форматирования промпта.
package prompt

import (
	"strings"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Value — готовый к отправке промпт.
//
// Tagged union: строковый промпт или упорядоченный список сообщений.
// Потребители (pkg/chain) работают только через этот интерфейс и не
// знают, каким шаблоном промпт был получен.
type Value interface {
	// String возвращает промпт как единый текст.
	String() string

	// Messages возвращает промпт как список сообщений.
	Messages() []llm.Message
}

// StringValue — промпт из одной строки.
type StringValue string

// String возвращает текст промпта.
func (v StringValue) String() string {
	return string(v)
}

// Messages оборачивает текст в одно user-сообщение.
func (v StringValue) Messages() []llm.Message {
	return []llm.Message{llm.NewUserMessage(string(v))}
}

// ChatValue — промпт из упорядоченной последовательности сообщений.
type ChatValue []llm.Message

// String склеивает сообщения в текст вида "role: content".
func (v ChatValue) String() string {
	var sb strings.Builder
	for i, m := range v {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}

// Messages возвращает копию последовательности сообщений.
func (v ChatValue) Messages() []llm.Message {
	return llm.CopyMessages(v)
}

// Интерфейсные проверки.
var (
	_ Value = StringValue("")
	_ Value = ChatValue(nil)
)
