// In-memory буфер истории без ограничения размера.
package memory

import (
	"context"
	"sync"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Buffer — простое in-memory хранилище истории.
//
// Thread-safe через sync.RWMutex.
type Buffer struct {
	mu       sync.RWMutex
	messages []llm.Message
}

// NewBuffer создаёт пустой буфер.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Load возвращает копию истории.
func (b *Buffer) Load(ctx context.Context) ([]llm.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return llm.CopyMessages(b.messages), nil
}

// Save добавляет пару реплик в конец истории.
func (b *Buffer) Save(ctx context.Context, human, ai llm.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, human, ai)
	return nil
}

// Clear очищает историю.
func (b *Buffer) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
	return nil
}

// AddMessage добавляет одно сообщение (для предзаполнения истории).
func (b *Buffer) AddMessage(msg llm.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

var _ Memory = (*Buffer)(nil)
