// Абстракции потоковой передачи (streaming) ответов от LLM.
package llm

import "context"

// StreamingProvider — интерфейс для LLM провайдеров с поддержкой стриминга.
//
// Отдельный интерфейс от Provider: провайдеры могут реализовать оба
// или только синхронный Provider.
type StreamingProvider interface {
	Provider

	// GenerateStream выполняет запрос с потоковой передачей ответа.
	//
	// callback вызывается для каждой порции данных строго в порядке
	// прихода от модели. Если callback возвращает ошибку, стрим
	// прерывается и GenerateStream возвращает эту ошибку.
	//
	// Возвращает финальное сообщение после завершения стриминга:
	// его Content равен конкатенации всех Delta.
	GenerateStream(
		ctx context.Context,
		messages []Message,
		callback StreamFunc,
		opts ...GenerateOption,
	) (Message, error)
}

// StreamFunc — приёмник порций потокового ответа.
//
// Буфер накопления принадлежит вызывающей стороне, а не библиотеке:
// callback получает каждую дельту и сам решает, что с ней делать.
type StreamFunc func(chunk StreamChunk) error

// StreamChunk представляет одну порцию данных из потокового ответа.
type StreamChunk struct {
	// Delta — инкрементальное изменение (новый фрагмент текста)
	Delta string

	// Content — накопленный контент на данный момент
	Content string

	// Done — флаг завершения стриминга
	Done bool
}
