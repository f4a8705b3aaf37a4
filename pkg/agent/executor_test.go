package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/memory"
	"github.com/ilkoid/kimono-ai/pkg/tools"
)

// scriptedProvider отдаёт заранее заданные ответы по очереди.
// Последний ответ повторяется, когда сценарий исчерпан.
type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	calls   int
	// промпты каждого обращения
	transcripts [][]llm.Message
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.transcripts = append(p.transcripts, llm.CopyMessages(messages))
	idx := p.calls
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	p.calls++
	return llm.NewAIMessage(p.replies[idx]), nil
}

// echoTool возвращает вход как наблюдение.
type echoTool struct {
	mu     sync.Mutex
	delay  time.Duration
	fail   bool
	called []string
}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "echoes its input" }
func (t *echoTool) Call(ctx context.Context, input string) (string, error) {
	time.Sleep(t.delay)
	t.mu.Lock()
	t.called = append(t.called, input)
	t.mu.Unlock()
	if t.fail {
		return "", errors.New("echo broke")
	}
	return "echo: " + input, nil
}

func newTestExecutor(t *testing.T, provider llm.Provider, tool tools.Tool, opts ...ExecutorOption) *Executor {
	t.Helper()
	registry, err := tools.NewRegistry(tool)
	if err != nil {
		t.Fatal(err)
	}
	ag, err := NewConversationalAgent(registry)
	if err != nil {
		t.Fatal(err)
	}
	return NewExecutor(provider, ag, registry, opts...)
}

const finishReply = `{"action": "Final Answer", "action_input": "all done"}`

func TestExecutorThinkActObserve(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"action": "echo", "action_input": "ping"}`,
		finishReply,
	}}
	tool := &echoTool{}

	out, err := newTestExecutor(t, provider, tool).Run(context.Background(), "do the thing")
	if err != nil {
		t.Fatal(err)
	}
	if out != "all done" {
		t.Errorf("output = %q", out)
	}
	if len(tool.called) != 1 || tool.called[0] != "ping" {
		t.Errorf("tool calls = %v", tool.called)
	}

	// Второе обращение видит наблюдение инструмента
	second := provider.transcripts[1]
	last := second[len(second)-1]
	if last.Role != llm.RoleUser || !strings.Contains(last.Content, "echo: ping") {
		t.Errorf("observation not in transcript: %+v", last)
	}
}

// Бюджет обращений к модели срабатывает ровно после N вызовов.
func TestExecutorMaxIterations(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"action": "echo", "action_input": "again"}`,
	}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithMaxIterations(3)).Run(context.Background(), "loop forever")
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatalf("err = %v, want ErrMaxIterations", err)
	}
	if provider.calls != 3 {
		t.Errorf("model calls = %d, want exactly 3", provider.calls)
	}
}

func TestExecutorToolNotFoundBecomesObservation(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"action": "no_such_tool", "action_input": "x"}`,
		finishReply,
	}}

	out, err := newTestExecutor(t, provider, &echoTool{},
		WithMaxToolErrors(5)).Run(context.Background(), "task")
	if err != nil {
		t.Fatal(err)
	}
	if out != "all done" {
		t.Errorf("output = %q", out)
	}

	second := provider.transcripts[1]
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "tool 'no_such_tool' not found") {
		t.Errorf("observation = %q", last.Content)
	}
	if !strings.Contains(last.Content, "echo") {
		t.Errorf("observation must list available tools: %q", last.Content)
	}
}

// Нераспознанный ответ лечится повтором; после исчерпания — ErrParse.
func TestExecutorParseSelfCorrection(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"gibberish without json",
		finishReply,
	}}

	out, err := newTestExecutor(t, provider, &echoTool{}).Run(context.Background(), "task")
	if err != nil {
		t.Fatal(err)
	}
	if out != "all done" {
		t.Errorf("output = %q", out)
	}

	second := provider.transcripts[1]
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "Invalid format") {
		t.Errorf("correction hint missing: %q", last.Content)
	}
}

func TestExecutorParseRetriesExhausted(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"still gibberish"}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithParseRetries(2), WithMaxIterations(10)).Run(context.Background(), "task")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	// Первая попытка + 2 повтора
	if provider.calls != 3 {
		t.Errorf("model calls = %d, want 3", provider.calls)
	}
}

func TestExecutorToolFailureStreak(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"action": "echo", "action_input": "x"}`,
	}}

	_, err := newTestExecutor(t, provider, &echoTool{fail: true},
		WithMaxToolErrors(3), WithMaxIterations(10)).Run(context.Background(), "task")
	if !errors.Is(err, ErrToolFailure) {
		t.Fatalf("err = %v, want ErrToolFailure", err)
	}
	if provider.calls != 3 {
		t.Errorf("model calls = %d, want 3 (streak bound)", provider.calls)
	}
}

// Наблюдения параллельных действий возвращаются в порядке запроса,
// даже если первое действие заканчивается последним.
func TestExecutorParallelObservationOrder(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`[{"action": "slow", "action_input": "first"}, {"action": "fast", "action_input": "second"}]`,
		finishReply,
	}}

	slow := &namedTool{name: "slow", delay: 50 * time.Millisecond}
	fast := &namedTool{name: "fast"}
	registry, err := tools.NewRegistry(slow, fast)
	if err != nil {
		t.Fatal(err)
	}
	ag, err := NewConversationalAgent(registry)
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewExecutor(provider, ag, registry, WithParallelTools(true)).
		Run(context.Background(), "task")
	if err != nil {
		t.Fatal(err)
	}

	second := provider.transcripts[1]
	last := second[len(second)-1].Content
	slowIdx := strings.Index(last, "slow")
	fastIdx := strings.Index(last, "fast")
	if slowIdx == -1 || fastIdx == -1 || slowIdx > fastIdx {
		t.Errorf("observations out of request order: %q", last)
	}
}

type namedTool struct {
	name  string
	delay time.Duration
}

func (t *namedTool) Name() string        { return t.name }
func (t *namedTool) Description() string { return "test tool " + t.name }
func (t *namedTool) Call(ctx context.Context, input string) (string, error) {
	time.Sleep(t.delay)
	return t.name + " result", nil
}

func TestExecutorMemoryRoundTrip(t *testing.T) {
	mem := memory.NewBuffer()
	provider := &scriptedProvider{replies: []string{finishReply}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithMemory(mem)).Run(context.Background(), "remember me")
	if err != nil {
		t.Fatal(err)
	}

	history, _ := mem.Load(context.Background())
	if len(history) != 2 {
		t.Fatalf("memory has %d messages, want 2", len(history))
	}
	if history[0].Content != "remember me" || history[1].Content != "all done" {
		t.Errorf("memory = %+v", history)
	}
}

func TestExecutorNoMemorySaveOnFailure(t *testing.T) {
	mem := memory.NewBuffer()
	provider := &scriptedProvider{replies: []string{
		`{"action": "echo", "action_input": "x"}`,
	}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithMemory(mem), WithMaxIterations(2)).Run(context.Background(), "task")
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatal(err)
	}

	history, _ := mem.Load(context.Background())
	if len(history) != 0 {
		t.Errorf("memory mutated on failed run: %+v", history)
	}
}

// Дедлайн проверяется перед обращением к модели.
func TestExecutorTimeout(t *testing.T) {
	provider := &scriptedProvider{replies: []string{finishReply}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithTimeout(time.Nanosecond)).Run(context.Background(), "task")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if provider.calls != 0 {
		t.Errorf("model calls = %d, want 0", provider.calls)
	}
}

func TestExecutorContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := memory.NewBuffer()
	provider := &scriptedProvider{replies: []string{finishReply}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithMemory(mem)).Run(ctx, "task")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	history, _ := mem.Load(context.Background())
	if len(history) != 0 {
		t.Errorf("memory mutated on cancelled run: %+v", history)
	}
}

// История из памяти попадает в стартовый промпт.
func TestExecutorInjectsHistory(t *testing.T) {
	mem := memory.NewBuffer()
	mem.AddMessage(llm.NewUserMessage("earlier question"))
	mem.AddMessage(llm.NewAIMessage("earlier answer"))

	provider := &scriptedProvider{replies: []string{finishReply}}

	_, err := newTestExecutor(t, provider, &echoTool{},
		WithMemory(mem)).Run(context.Background(), "new question")
	if err != nil {
		t.Fatal(err)
	}

	first := provider.transcripts[0]
	var found bool
	for _, msg := range first {
		if msg.Content == "earlier question" {
			found = true
		}
	}
	if !found {
		t.Errorf("history not injected: %+v", first)
	}
}
