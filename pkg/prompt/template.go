// Package prompt предоставляет движок шаблонов и форматирование сообщений.
//
// Шаблон использует синтаксис фигурных скобок: "Привет, {name}!".
// Placeholder'ом считается только {идентификатор}; прочие скобки
// (например JSON в тексте промпта) остаются литеральным текстом.
//
// Все обязательные переменные проверяются до подстановки — ошибка
// форматирования никогда не доходит до вызова модели.
package prompt

import (
	"strings"
)

// Template — текстовый шаблон с именованными слотами.
//
// Иммутабелен после создания, безопасен для конкурентного Render.
type Template struct {
	text string
	vars []string
}

// NewTemplate создаёт шаблон, извлекая имена переменных из текста.
//
// Возвращает ErrMalformedTemplate если синтаксис скобок нарушен.
func NewTemplate(text string) (*Template, error) {
	vars, err := ExtractVariables(text)
	if err != nil {
		return nil, err
	}
	return &Template{text: text, vars: vars}, nil
}

// MustTemplate — NewTemplate с panic на ошибке.
//
// Только для статических шаблонов, известных на этапе компиляции.
func MustTemplate(text string) *Template {
	t, err := NewTemplate(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Variables возвращает имена обязательных переменных шаблона.
func (t *Template) Variables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// Render подставляет переменные и возвращает готовый текст.
//
// Сначала проверяет наличие всех обязательных имён (fail fast,
// ErrMissingVariable), затем выполняет подстановку за один проход.
func (t *Template) Render(vars Vars) (string, error) {
	for _, name := range t.vars {
		if _, ok := vars.Text(name); !ok {
			return "", MissingVariable(name)
		}
	}

	var sb strings.Builder
	sb.Grow(len(t.text))

	rest := t.text
	for {
		name, before, after, ok := nextPlaceholder(rest)
		if !ok {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(before)
		value, _ := vars.Text(name)
		sb.WriteString(value)
		rest = after
	}
}

// ExtractVariables возвращает имена placeholder'ов в порядке появления,
// без дубликатов.
//
// Возвращает ErrMalformedTemplate если открытый {идентификатор
// не закрыт или содержит вложенную скобку.
func ExtractVariables(text string) ([]string, error) {
	// Сначала валидируем весь текст, потом собираем имена:
	// nextPlaceholder пропускает битые конструкции молча.
	if err := checkBraces(text); err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)

	rest := text
	for {
		name, _, after, ok := nextPlaceholder(rest)
		if !ok {
			return names, nil
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = after
	}
}

// nextPlaceholder находит первый {идентификатор} в тексте.
//
// Возвращает имя, текст до placeholder'а, текст после и флаг наличия.
func nextPlaceholder(text string) (name, before, after string, ok bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		j := i + 1
		for j < len(text) && isIdentChar(text[j]) {
			j++
		}
		if j == i+1 {
			// '{' не за которым следует идентификатор — литерал
			continue
		}
		if j < len(text) && text[j] == '}' {
			return text[i+1 : j], text[:i], text[j+1:], true
		}
		// {ident без закрытия: пропускаем, checkBraces сообщит об ошибке
	}
	return "", "", "", false
}

// checkBraces проверяет что в тексте не осталось незакрытых
// или вложенных {идентификатор конструкций.
func checkBraces(text string) error {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		j := i + 1
		for j < len(text) && isIdentChar(text[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		if j >= len(text) {
			return ErrMalformedTemplate
		}
		if text[j] == '{' {
			return ErrMalformedTemplate
		}
		if text[j] != '}' {
			// {ident за которым следует не-идентификатор — литерал
			continue
		}
	}
	return nil
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
