// Переменные подстановки — динамически типизированный mapping.
package prompt

import (
	"fmt"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Vars — отображение имени переменной в значение.
//
// Значением может быть текст, срез сообщений (для placeholder'ов
// истории) или любое значение с осмысленным %v представлением.
type Vars map[string]any

// Text возвращает текстовое представление переменной.
//
// Второй результат false если ключа нет.
func (v Vars) Text(key string) (string, bool) {
	val, ok := v[key]
	if !ok {
		return "", false
	}
	switch t := val.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// Messages возвращает значение переменной как срез сообщений.
//
// Поддерживает []llm.Message и одиночное llm.Message.
// Второй результат false если ключа нет или тип не подходит.
func (v Vars) Messages(key string) ([]llm.Message, bool) {
	val, ok := v[key]
	if !ok {
		return nil, false
	}
	switch t := val.(type) {
	case []llm.Message:
		return t, true
	case llm.Message:
		return []llm.Message{t}, true
	default:
		return nil, false
	}
}

// Clone возвращает поверхностную копию отображения.
//
// Цепочки записывают выходные ключи в копию, не мутируя вход вызывающего.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
