package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestTemplateRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     Vars
		expected string
	}{
		{
			name:     "single variable",
			template: "Hello {name}!",
			vars:     Vars{"name": "world"},
			expected: "Hello world!",
		},
		{
			name:     "multiple variables",
			template: "{user} says {message}",
			vars:     Vars{"user": "Alice", "message": "hi"},
			expected: "Alice says hi",
		},
		{
			name:     "repeated variable",
			template: "{x} and {x}",
			vars:     Vars{"x": "a"},
			expected: "a and a",
		},
		{
			name:     "no variables",
			template: "plain text",
			vars:     Vars{},
			expected: "plain text",
		},
		{
			name:     "non-string value",
			template: "count: {n}",
			vars:     Vars{"n": 42},
			expected: "count: 42",
		},
		{
			name:     "json braces are literal",
			template: `respond with {"action": string}, task: {input}`,
			vars:     Vars{"input": "go"},
			expected: `respond with {"action": string}, task: go`,
		},
		{
			name:     "extra variables ignored",
			template: "Hello {name}",
			vars:     Vars{"name": "a", "unused": "b"},
			expected: "Hello a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := NewTemplate(tt.template)
			if err != nil {
				t.Fatalf("NewTemplate: %v", err)
			}
			got, err := tmpl.Render(tt.vars)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Render = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTemplateMissingVariable(t *testing.T) {
	tmpl := MustTemplate("Hello {name}, you are {age}")

	_, err := tmpl.Render(Vars{"name": "Bob"})
	if !errors.Is(err, ErrMissingVariable) {
		t.Fatalf("expected ErrMissingVariable, got %v", err)
	}
	if !strings.Contains(err.Error(), "age") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestTemplateMalformed(t *testing.T) {
	tests := []string{
		"unterminated {name",
		"nested {a{b}}",
	}
	for _, text := range tests {
		if _, err := NewTemplate(text); !errors.Is(err, ErrMalformedTemplate) {
			t.Errorf("NewTemplate(%q): expected ErrMalformedTemplate, got %v", text, err)
		}
	}
}

func TestTemplateNoUnresolvedPlaceholders(t *testing.T) {
	tmpl := MustTemplate("{a} {b} {c}")
	got, err := tmpl.Render(Vars{"a": "1", "b": "2", "c": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(got, "{}") {
		t.Errorf("result contains unresolved placeholder syntax: %q", got)
	}
}

func TestExtractVariables(t *testing.T) {
	vars, err := ExtractVariables("{user} says {message} to {user}")
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 2 || vars[0] != "user" || vars[1] != "message" {
		t.Errorf("ExtractVariables = %v, want [user message]", vars)
	}
}

// Повторный рендер с теми же переменными обязан давать идентичный
// результат: шаблон не имеет скрытого состояния.
func TestTemplateIdempotent(t *testing.T) {
	tmpl := MustTemplate("Hi {name}")
	vars := Vars{"name": "x"}

	first, err := tmpl.Render(vars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tmpl.Render(vars)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
}
