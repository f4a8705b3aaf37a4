// Базовые типы — универсальный язык общения с моделями.
package llm

// Role — роль участника диалога.
type Role string

// Роли сообщений.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message — одно сообщение диалога.
//
// Значение иммутабельно после создания: компоненты библиотеки
// копируют срезы сообщений, а не мутируют их на месте.
type Message struct {
	// Role — роль отправителя ("system", "user", "assistant", "tool")
	Role Role

	// Content — текстовое содержимое
	Content string

	// Images — опциональные изображения для vision запросов
	// (base64 data-uri или http ссылки)
	Images []string

	// Metadata — произвольные метаданные (порядок ключей не важен)
	Metadata map[string]string

	// ToolCallID — идентификатор вызова инструмента,
	// заполняется только для Role == RoleTool
	ToolCallID string
}

// NewSystemMessage создаёт системное сообщение.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage создаёт сообщение пользователя.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAIMessage создаёт сообщение ассистента.
func NewAIMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage создаёт сообщение с результатом инструмента.
//
// callID связывает результат с конкретным вызовом инструмента.
func NewToolMessage(content string, callID string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// WithImages возвращает копию сообщения с прикреплёнными изображениями.
func (m Message) WithImages(images ...string) Message {
	m.Images = append([]string(nil), images...)
	return m
}

// CopyMessages возвращает независимую копию среза сообщений.
//
// Используется везде где история передаётся между goroutines.
func CopyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
