// Ошибки форматирования промптов.
package prompt

import (
	"errors"
	"fmt"
)

// Сентинели для errors.Is.
var (
	// ErrMissingVariable — в переданных переменных нет имени,
	// которое требует шаблон. Возвращается до любого вызова модели.
	ErrMissingVariable = errors.New("missing variable")

	// ErrMalformedTemplate — синтаксис фигурных скобок нарушен
	// (незакрытый или вложенный placeholder).
	ErrMalformedTemplate = errors.New("malformed template")
)

// MissingVariable оборачивает ErrMissingVariable именем переменной.
func MissingVariable(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingVariable, name)
}
