// Ошибки цикла агента.
package agent

import "errors"

var (
	// ErrUnparsable — ответ модели не распознан ни как действие,
	// ни как финальный ответ. Ошибка восстановимая: executor даёт
	// модели несколько попыток самокоррекции.
	ErrUnparsable = errors.New("unparsable model output")

	// ErrParse — попытки самокоррекции исчерпаны.
	ErrParse = errors.New("agent parse failure")

	// ErrMaxIterations — бюджет обращений к модели исчерпан,
	// финального ответа нет.
	ErrMaxIterations = errors.New("agent reached max iterations")

	// ErrToolFailure — один и тот же инструмент упал несколько раз
	// подряд; продолжать цикл бессмысленно.
	ErrToolFailure = errors.New("agent tool keeps failing")

	// ErrTimeout — дедлайн запуска истёк. Проверяется перед очередным
	// обращением к модели, никогда посреди вызова инструмента.
	ErrTimeout = errors.New("agent deadline exceeded")
)
