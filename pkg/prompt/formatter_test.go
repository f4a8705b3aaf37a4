package prompt

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

func TestFormatterOrdering(t *testing.T) {
	f := NewFormatter().
		AddMessage(llm.NewSystemMessage("you are helpful")).
		AddTemplate(llm.RoleUser, MustTemplate("task: {input}")).
		AddPlaceholder("history")

	history := []llm.Message{
		llm.NewUserMessage("first"),
		llm.NewAIMessage("second"),
	}

	messages, err := f.FormatMessages(Vars{
		"input":   "do it",
		"history": history,
	})
	if err != nil {
		t.Fatal(err)
	}

	// [Literal, Templated, Placeholder(2)] → ровно 4 сообщения
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Content != "you are helpful" || messages[0].Role != llm.RoleSystem {
		t.Errorf("message[0] = %+v", messages[0])
	}
	if messages[1].Content != "task: do it" || messages[1].Role != llm.RoleUser {
		t.Errorf("message[1] = %+v", messages[1])
	}
	if messages[2].Content != "first" || messages[3].Content != "second" {
		t.Errorf("history order not preserved: %+v", messages[2:])
	}
}

func TestFormatterEmptyPlaceholder(t *testing.T) {
	f := NewFormatter().
		AddMessage(llm.NewSystemMessage("sys")).
		AddPlaceholder("history")

	messages, err := f.FormatMessages(Vars{"history": []llm.Message{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
}

func TestFormatterMissingVariable(t *testing.T) {
	f := NewFormatter().
		AddTemplate(llm.RoleUser, MustTemplate("{input}")).
		AddPlaceholder("history")

	// Нет переменной шаблона
	_, err := f.FormatMessages(Vars{"history": []llm.Message{}})
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("expected ErrMissingVariable for template var, got %v", err)
	}

	// Нет placeholder переменной
	_, err = f.FormatMessages(Vars{"input": "x"})
	if !errors.Is(err, ErrMissingVariable) {
		t.Errorf("expected ErrMissingVariable for placeholder, got %v", err)
	}
}

func TestFormatterIdempotent(t *testing.T) {
	f := NewFormatter().
		AddTemplate(llm.RoleUser, MustTemplate("hi {name}")).
		AddPlaceholder("history")

	vars := Vars{
		"name":    "x",
		"history": []llm.Message{llm.NewUserMessage("a")},
	}

	first, err := f.FormatMessages(vars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.FormatMessages(vars)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Errorf("message %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestFormatterInputVariables(t *testing.T) {
	f := NewFormatter().
		AddTemplate(llm.RoleSystem, MustTemplate("{a} {b}")).
		AddTemplate(llm.RoleUser, MustTemplate("{b} {c}")).
		AddPlaceholder("history")

	got := f.InputVariables()
	want := []string{"a", "b", "c", "history"}
	if len(got) != len(want) {
		t.Fatalf("InputVariables = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("InputVariables[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatPromptValue(t *testing.T) {
	f := NewFormatter().
		AddMessage(llm.NewSystemMessage("sys")).
		AddTemplate(llm.RoleUser, MustTemplate("hi {name}"))

	value, err := f.FormatPrompt(Vars{"name": "x"})
	if err != nil {
		t.Fatal(err)
	}

	messages := value.Messages()
	if len(messages) != 2 || messages[1].Content != "hi x" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
	if got := value.String(); got != "system: sys\nuser: hi x" {
		t.Errorf("String() = %q", got)
	}
}

func TestStringValueMessages(t *testing.T) {
	v := StringValue("plain prompt")
	messages := v.Messages()
	if len(messages) != 1 || messages[0].Role != llm.RoleUser || messages[0].Content != "plain prompt" {
		t.Errorf("unexpected messages: %+v", messages)
	}
}

func TestFromTemplate(t *testing.T) {
	f := FromTemplate(MustTemplate("ask: {q}"))
	messages, err := f.FormatMessages(Vars{"q": "why"})
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 || messages[0].Role != llm.RoleUser || messages[0].Content != "ask: why" {
		t.Errorf("unexpected messages: %+v", messages)
	}
}
