package memory

import (
	"context"
	"testing"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

// После Save(human, ai) последние два сообщения Load — ровно эта пара,
// в этом порядке.
func TestBufferRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer()

	human := llm.NewUserMessage("question")
	ai := llm.NewAIMessage("answer")
	if err := b.Save(ctx, human, ai); err != nil {
		t.Fatal(err)
	}

	history, err := b.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[len(history)-2].Content != "question" {
		t.Errorf("second to last = %+v, want human turn", history[len(history)-2])
	}
	if history[len(history)-1].Content != "answer" {
		t.Errorf("last = %+v, want ai turn", history[len(history)-1])
	}
}

func TestBufferClear(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer()
	_ = b.Save(ctx, llm.NewUserMessage("a"), llm.NewAIMessage("b"))
	_ = b.Clear(ctx)

	history, _ := b.Load(ctx)
	if len(history) != 0 {
		t.Errorf("expected empty history after Clear, got %d messages", len(history))
	}
}

// Load возвращает копию: мутация результата не видна хранилищу.
func TestBufferLoadIsolation(t *testing.T) {
	ctx := context.Background()
	b := NewBuffer()
	_ = b.Save(ctx, llm.NewUserMessage("a"), llm.NewAIMessage("b"))

	history, _ := b.Load(ctx)
	history[0].Content = "mutated"

	again, _ := b.Load(ctx)
	if again[0].Content != "a" {
		t.Errorf("store mutated through returned slice")
	}
}

func TestWindowEviction(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(4)

	for i := 0; i < 4; i++ {
		human := llm.NewUserMessage("q")
		ai := llm.NewAIMessage("a")
		if err := w.Save(ctx, human, ai); err != nil {
			t.Fatal(err)
		}
	}

	history, _ := w.Load(ctx)
	if len(history) != 4 {
		t.Fatalf("expected window of 4, got %d", len(history))
	}
	// Последняя пара всегда в конце
	if history[2].Role != llm.RoleUser || history[3].Role != llm.RoleAssistant {
		t.Errorf("window tail is not the latest pair: %+v", history[2:])
	}
}

func TestNopAlwaysEmpty(t *testing.T) {
	ctx := context.Background()
	n := NewNop()

	if err := n.Save(ctx, llm.NewUserMessage("a"), llm.NewAIMessage("b")); err != nil {
		t.Fatal(err)
	}
	history, err := n.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("nop memory must stay empty, got %d messages", len(history))
	}
}
