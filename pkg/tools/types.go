// Интерфейс Tool — контракт инструмента агента.

package tools

import "context"

// Tool — контракт, который должен реализовать любой инструмент.
//
// Инструмент получает вход одной строкой (как его прислала модель)
// и возвращает наблюдение одной строкой. Ошибка Call не валит
// выполнение агента: executor превращает её в наблюдение и
// отдаёт модели на следующей итерации.
type Tool interface {
	// Name возвращает уникальное имя инструмента.
	// По этому имени модель выбирает действие.
	Name() string

	// Description описывает инструмент для модели:
	// что делает и какой вход ожидает.
	Description() string

	// Call выполняет логику инструмента.
	Call(ctx context.Context, input string) (string, error)
}
