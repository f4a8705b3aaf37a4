// Инструмент текущего времени.
package std

import (
	"context"
	"time"

	"github.com/ilkoid/kimono-ai/pkg/tools"
)

// Clock сообщает модели текущие дату и время.
//
// now подменяется в тестах.
type Clock struct {
	now func() time.Time
}

// NewClock создаёт инструмент системных часов.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (t *Clock) Name() string {
	return "current_time"
}

func (t *Clock) Description() string {
	return "Returns the current date and time. Input is ignored."
}

func (t *Clock) Call(ctx context.Context, input string) (string, error) {
	return t.now().Format("Monday, 2 January 2006, 15:04:05 MST"), nil
}

var _ tools.Tool = (*Clock)(nil)
