package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/memory"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
)

func TestConversationalInjectsHistory(t *testing.T) {
	provider := &stubProvider{reply: "your name is Bob"}
	mem := memory.NewBuffer()
	mem.AddMessage(llm.NewUserMessage("my name is Bob"))
	mem.AddMessage(llm.NewAIMessage("nice to meet you"))

	c, err := NewConversational(provider, mem, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Call(context.Background(), prompt.Vars{"input": "what is my name?"})
	if err != nil {
		t.Fatal(err)
	}

	// system + 2 истории + ввод
	if len(provider.lastMessages) != 4 {
		t.Fatalf("model saw %d messages, want 4", len(provider.lastMessages))
	}
	if provider.lastMessages[1].Content != "my name is Bob" {
		t.Errorf("history not injected: %+v", provider.lastMessages)
	}
}

// Пара реплик пишется в память только после полного успеха.
func TestConversationalSavesAfterSuccess(t *testing.T) {
	provider := &stubProvider{reply: "hello!"}
	mem := memory.NewBuffer()

	c, err := NewConversational(provider, mem, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Call(context.Background(), prompt.Vars{"input": "hi"}); err != nil {
		t.Fatal(err)
	}

	history, _ := mem.Load(context.Background())
	if len(history) != 2 {
		t.Fatalf("memory has %d messages, want 2", len(history))
	}
	if history[0].Content != "hi" || history[0].Role != llm.RoleUser {
		t.Errorf("human turn = %+v", history[0])
	}
	if history[1].Content != "hello!" || history[1].Role != llm.RoleAssistant {
		t.Errorf("ai turn = %+v", history[1])
	}
}

type failingProvider struct{}

func (failingProvider) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	return llm.Message{}, fmt.Errorf("model unavailable")
}

func TestConversationalNoSaveOnFailure(t *testing.T) {
	mem := memory.NewBuffer()

	c, err := NewConversational(failingProvider{}, mem, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Call(context.Background(), prompt.Vars{"input": "hi"}); err == nil {
		t.Fatal("expected model error")
	}

	history, _ := mem.Load(context.Background())
	if len(history) != 0 {
		t.Errorf("memory mutated on failed call: %+v", history)
	}
}

// Nop-память — легальная политика, а не ошибка.
func TestConversationalWithNopMemory(t *testing.T) {
	provider := &stubProvider{reply: "ok"}

	c, err := NewConversational(provider, memory.NewNop(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Call(context.Background(), prompt.Vars{"input": "hi"}); err != nil {
			t.Fatal(err)
		}
	}

	// История всегда пуста: system + ввод
	if len(provider.lastMessages) != 2 {
		t.Errorf("model saw %d messages, want 2", len(provider.lastMessages))
	}
}

func TestConversationalFormatterValidation(t *testing.T) {
	provider := &stubProvider{}

	// Без placeholder истории
	noHistory := prompt.NewFormatter().
		AddTemplate(llm.RoleUser, prompt.MustTemplate("{input}"))
	if _, err := NewConversational(provider, nil, noHistory); !errors.Is(err, ErrChain) {
		t.Errorf("err = %v, want ErrChain for missing history", err)
	}

	// Две входные переменные
	twoInputs := prompt.NewFormatter().
		AddPlaceholder(HistoryKey).
		AddTemplate(llm.RoleUser, prompt.MustTemplate("{a} {b}"))
	if _, err := NewConversational(provider, nil, twoInputs); !errors.Is(err, ErrChain) {
		t.Errorf("err = %v, want ErrChain for two inputs", err)
	}
}

func TestConversationalStreaming(t *testing.T) {
	provider := &stubProvider{deltas: []string{"Hi ", "there"}}
	mem := memory.NewBuffer()

	var assembled string
	c, err := NewConversational(provider, mem, nil,
		WithStreamFunc(func(chunk llm.StreamChunk) error {
			assembled += chunk.Delta
			return nil
		}))
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.Call(context.Background(), prompt.Vars{"input": "hello"})
	if err != nil {
		t.Fatal(err)
	}

	text, _ := out.Text(OutputKey)
	if text != "Hi there" || assembled != text {
		t.Errorf("text = %q, sink = %q", text, assembled)
	}

	// В память попал собранный из дельт текст
	history, _ := mem.Load(context.Background())
	if history[1].Content != "Hi there" {
		t.Errorf("saved ai turn = %+v", history[1])
	}
}
