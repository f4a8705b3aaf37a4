// Package memory предоставляет хранилища истории диалога.
//
// Memory — единственный компонент библиотеки с мутабельным состоянием,
// переживающим вызов цепочки. Предполагается один логический писатель
// на диалог: конкурентные вызовы одной беседы сериализует вызывающий.
package memory

import (
	"context"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// Memory — контракт хранилища истории.
type Memory interface {
	// Load возвращает текущую историю, от старых сообщений к новым.
	Load(ctx context.Context) ([]llm.Message, error)

	// Save добавляет пару (реплика пользователя, ответ ассистента).
	//
	// Вызывается только после успешного завершения вызова цепочки —
	// частичных записей при отмене или ошибке не бывает.
	Save(ctx context.Context, human, ai llm.Message) error

	// Clear очищает историю.
	Clear(ctx context.Context) error
}
