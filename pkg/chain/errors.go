// Ошибки уровня цепочек.
package chain

import "errors"

var (
	// ErrChain — общая ошибка выполнения цепочки. Оборачивает ошибку
	// форматирования или модели; проверяется через errors.Is.
	ErrChain = errors.New("chain error")

	// ErrKeyMismatch возвращается при сборке последовательной цепочки,
	// если выходные ключи звена не покрывают входные ключи следующего.
	// Обнаруживается на конструировании, не на вызове.
	ErrKeyMismatch = errors.New("chain key mismatch")

	// ErrKeyCollision возвращается, когда звено последовательной цепочки
	// пишет в ключ, который уже занят. Молчаливая перезапись запрещена.
	ErrKeyCollision = errors.New("chain key collision")

	// ErrStreamingSink — ошибка потребителя потока. Фатальна для текущего
	// вызова цепочки: частичный стриминг не повторяется автоматически.
	ErrStreamingSink = errors.New("streaming sink error")
)
