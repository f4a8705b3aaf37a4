// Скользящее окно истории фиксированного размера.
package memory

import (
	"context"
	"sync"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// DefaultWindowSize — размер окна по умолчанию (в сообщениях).
const DefaultWindowSize = 10

// Window хранит только последние windowSize сообщений.
//
// Старые сообщения вытесняются по одному: история всегда
// заканчивается самой свежей парой.
type Window struct {
	mu         sync.RWMutex
	windowSize int
	messages   []llm.Message
}

// NewWindow создаёт окно на size сообщений.
//
// size <= 0 заменяется на DefaultWindowSize.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{windowSize: size}
}

// Load возвращает копию окна истории.
func (w *Window) Load(ctx context.Context) ([]llm.Message, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return llm.CopyMessages(w.messages), nil
}

// Save добавляет пару реплик, вытесняя старые сообщения.
func (w *Window) Save(ctx context.Context, human, ai llm.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.push(human)
	w.push(ai)
	return nil
}

// Clear очищает историю.
func (w *Window) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = nil
	return nil
}

func (w *Window) push(msg llm.Message) {
	if len(w.messages) >= w.windowSize {
		w.messages = w.messages[1:]
	}
	w.messages = append(w.messages, msg)
}

var _ Memory = (*Window)(nil)
