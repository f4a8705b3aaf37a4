package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

func TestSequentialPipesOutput(t *testing.T) {
	first, err := NewLLMChain(&stubProvider{reply: "intermediate"},
		userTemplate(t, "Summarize: {input}"),
		WithOutputKey("summary"))
	if err != nil {
		t.Fatal(err)
	}

	secondProvider := &stubProvider{reply: "final"}
	second, err := NewLLMChain(secondProvider,
		userTemplate(t, "Translate: {summary}"))
	if err != nil {
		t.Fatal(err)
	}

	seq, err := NewSequential(first, second)
	if err != nil {
		t.Fatal(err)
	}

	out, err := seq.Call(context.Background(), prompt.Vars{"input": "long text"})
	if err != nil {
		t.Fatal(err)
	}

	// Результат последнего звена не изменяется слоем композиции
	text, _ := out.Text(OutputKey)
	if text != "final" {
		t.Errorf("output = %q", text)
	}
	if got := secondProvider.lastMessages[0].Content; got != "Translate: intermediate" {
		t.Errorf("second link prompt = %q", got)
	}
}

// Несостыковка ключей ловится на конструировании, не на вызове.
func TestSequentialKeyMismatchAtConstruction(t *testing.T) {
	first, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{input}"),
		WithOutputKey("output"))
	second, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{foo}"))

	_, err := NewSequential(first, second)
	if !errors.Is(err, ErrKeyMismatch) {
		t.Fatalf("err = %v, want ErrKeyMismatch", err)
	}
}

func TestSequentialKeyCollision(t *testing.T) {
	first, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{input}"))
	// Второе звено пишет в тот же ключ "text"
	second, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{text}"))

	_, err := NewSequential(first, second)
	if !errors.Is(err, ErrKeyCollision) {
		t.Fatalf("err = %v, want ErrKeyCollision", err)
	}
}

func TestSequentialEmpty(t *testing.T) {
	if _, err := NewSequential(); !errors.Is(err, ErrChain) {
		t.Fatalf("err = %v, want ErrChain", err)
	}
}

func TestSequentialKeys(t *testing.T) {
	first, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{input}"),
		WithOutputKey("middle"))
	second, _ := NewLLMChain(&stubProvider{}, userTemplate(t, "{middle}"))

	seq, err := NewSequential(first, second)
	if err != nil {
		t.Fatal(err)
	}
	if keys := seq.InputKeys(); len(keys) != 1 || keys[0] != "input" {
		t.Errorf("InputKeys = %v", keys)
	}
	if keys := seq.OutputKeys(); len(keys) != 1 || keys[0] != OutputKey {
		t.Errorf("OutputKeys = %v", keys)
	}
}

// Плейсхолдер истории работает и внутри конвейера.
func TestSequentialWithChatHistory(t *testing.T) {
	f := prompt.NewFormatter().
		AddPlaceholder("dialog").
		AddTemplate(llm.RoleUser, prompt.MustTemplate("{input}"))

	provider := &stubProvider{reply: "done"}
	c, err := NewLLMChain(provider, f)
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.Call(context.Background(), prompt.Vars{
		"dialog": []llm.Message{llm.NewUserMessage("before"), llm.NewAIMessage("sure")},
		"input":  "now",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(provider.lastMessages) != 3 {
		t.Fatalf("model saw %d messages, want 3", len(provider.lastMessages))
	}
	if text, _ := out.Text(OutputKey); text != "done" {
		t.Errorf("output = %q", text)
	}
}
