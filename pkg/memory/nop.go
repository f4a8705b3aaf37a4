// No-op память — явная политика "без истории".
package memory

import (
	"context"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Nop — память-заглушка: история всегда пуста, записи игнорируются.
//
// Это осознанная политика для цепочек без памяти, а не ошибочный путь:
// ConversationalChain с Nop просто всегда видит пустую историю.
type Nop struct{}

// NewNop создаёт no-op память.
func NewNop() Nop {
	return Nop{}
}

// Load всегда возвращает пустую историю.
func (Nop) Load(ctx context.Context) ([]llm.Message, error) {
	return nil, nil
}

// Save игнорирует запись.
func (Nop) Save(ctx context.Context, human, ai llm.Message) error {
	return nil
}

// Clear ничего не делает.
func (Nop) Clear(ctx context.Context) error {
	return nil
}

var _ Memory = Nop{}
