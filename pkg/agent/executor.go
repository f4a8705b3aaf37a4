package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ilkoid/kimono-ai/pkg/events"
	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/memory"
	"github.com/ilkoid/kimono-ai/pkg/tools"
	"github.com/ilkoid/kimono-ai/pkg/utils"
)

// Дефолты цикла.
const (
	DefaultMaxIterations = 10
	DefaultParseRetries  = 3
	DefaultMaxToolErrors = 3
)

// Executor гоняет цикл Thinking → Acting → Observing до финального
// ответа или срыва одной из границ.
//
// Границы цикла:
//   - бюджет обращений к модели (ErrMaxIterations);
//   - попытки самокоррекции после нераспознанного ответа (ErrParse);
//   - подряд идущие ошибки одного инструмента (ErrToolFailure);
//   - дедлайн запуска (ErrTimeout), проверяемый только перед
//     обращением к модели — инструмент в полёте всегда дорабатывает.
type Executor struct {
	provider llm.Provider
	agent    *ConversationalAgent
	registry *tools.Registry

	memory        memory.Memory
	emitter       events.Emitter
	maxIterations int
	parseRetries  int
	maxToolErrors int
	parallel      bool
	timeout       time.Duration
	genOpts       []llm.GenerateOption
}

// ExecutorOption настраивает Executor.
type ExecutorOption func(*Executor)

// WithMemory подключает память диалога. История подставляется в промпт,
// пара (задача, финальный ответ) дописывается после успеха.
func WithMemory(mem memory.Memory) ExecutorOption {
	return func(e *Executor) { e.memory = mem }
}

// WithEmitter подключает шину событий выполнения.
func WithEmitter(emitter events.Emitter) ExecutorOption {
	return func(e *Executor) { e.emitter = emitter }
}

// WithMaxIterations задаёт бюджет обращений к модели.
func WithMaxIterations(n int) ExecutorOption {
	return func(e *Executor) { e.maxIterations = n }
}

// WithParseRetries задаёт число попыток самокоррекции парсинга.
func WithParseRetries(n int) ExecutorOption {
	return func(e *Executor) { e.parseRetries = n }
}

// WithMaxToolErrors задаёт границу подряд идущих ошибок инструмента.
func WithMaxToolErrors(n int) ExecutorOption {
	return func(e *Executor) { e.maxToolErrors = n }
}

// WithParallelTools включает параллельный запуск действий из одного
// ответа модели. Наблюдения в любом случае возвращаются модели
// в порядке запроса.
func WithParallelTools(parallel bool) ExecutorOption {
	return func(e *Executor) { e.parallel = parallel }
}

// WithTimeout задаёт дедлайн всего запуска.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// WithGenerateOptions задаёт параметры генерации для всех обращений.
func WithGenerateOptions(opts ...llm.GenerateOption) ExecutorOption {
	return func(e *Executor) { e.genOpts = append(e.genOpts, opts...) }
}

// NewExecutor собирает исполнителя агента.
func NewExecutor(provider llm.Provider, ag *ConversationalAgent, registry *tools.Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		provider:      provider,
		agent:         ag,
		registry:      registry,
		memory:        memory.NewNop(),
		emitter:       events.NopEmitter{},
		maxIterations: DefaultMaxIterations,
		parseRetries:  DefaultParseRetries,
		maxToolErrors: DefaultMaxToolErrors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// observation — результат одного действия, привязанный к его ID.
type observation struct {
	action  Action
	result  string
	isError bool
}

// Run выполняет задачу и возвращает финальный ответ.
func (e *Executor) Run(ctx context.Context, input string) (string, error) {
	var deadline time.Time
	if e.timeout > 0 {
		deadline = time.Now().Add(e.timeout)
	}

	history, err := e.memory.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load memory: %w", err)
	}

	transcript, err := e.agent.InitialMessages(input, history)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	modelCalls := 0
	parseFailures := 0
	toolErrStreak := make(map[string]int)

	for {
		// Thinking: границы проверяются до обращения к модели
		if err := ctx.Err(); err != nil {
			return "", e.fail(ctx, err)
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return "", e.fail(ctx, ErrTimeout)
		}
		if modelCalls >= e.maxIterations {
			return "", e.fail(ctx, fmt.Errorf("%w: no final answer after %d model calls", ErrMaxIterations, modelCalls))
		}

		e.emitter.Emit(ctx, events.New(events.EventThinking, events.ThinkingData{Iteration: modelCalls + 1}))

		reply, err := e.provider.Generate(ctx, transcript, e.genOpts...)
		modelCalls++
		if err != nil {
			return "", e.fail(ctx, fmt.Errorf("generate: %w", err))
		}
		transcript = append(transcript, llm.NewAIMessage(reply.Content))
		e.emitter.Emit(ctx, events.New(events.EventMessage, events.MessageData{Content: reply.Content}))
		utils.Debug("agent model reply", "iteration", modelCalls, "len", len(reply.Content))

		decision, err := e.agent.Parse(reply.Content)
		if err != nil {
			if !errors.Is(err, ErrUnparsable) {
				return "", e.fail(ctx, err)
			}
			parseFailures++
			if parseFailures > e.parseRetries {
				return "", e.fail(ctx, fmt.Errorf("%w: %d attempts: %w", ErrParse, parseFailures, err))
			}
			transcript = append(transcript, llm.NewUserMessage(invalidFormatObservation))
			continue
		}
		parseFailures = 0

		switch d := decision.(type) {
		case Finish:
			e.emitter.Emit(ctx, events.New(events.EventDone, events.MessageData{Content: d.Output}))
			// Память мутирует только после полного успеха
			if err := e.memory.Save(ctx, llm.NewUserMessage(input), llm.NewAIMessage(d.Output)); err != nil {
				return "", fmt.Errorf("save memory: %w", err)
			}
			return d.Output, nil

		case Act:
			observations := e.dispatch(ctx, d.Actions)
			for _, obs := range observations {
				tool := obs.action.Tool
				if obs.isError {
					toolErrStreak[tool]++
					if toolErrStreak[tool] >= e.maxToolErrors {
						return "", e.fail(ctx, fmt.Errorf("%w: '%s' failed %d times in a row: %s",
							ErrToolFailure, tool, toolErrStreak[tool], obs.result))
					}
				} else {
					toolErrStreak[tool] = 0
				}
			}
			transcript = append(transcript, llm.NewUserMessage(formatObservations(observations)))
		}
	}
}

// dispatch выполняет действия и возвращает наблюдения в порядке запроса.
func (e *Executor) dispatch(ctx context.Context, actions []Action) []observation {
	observations := make([]observation, len(actions))

	if !e.parallel || len(actions) == 1 {
		for i, action := range actions {
			observations[i] = e.callTool(ctx, action)
		}
		return observations
	}

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action Action) {
			defer wg.Done()
			observations[i] = e.callTool(ctx, action)
		}(i, action)
	}
	wg.Wait()

	return observations
}

// callTool выполняет одно действие; любая проблема становится
// наблюдением, а не ошибкой исполнителя.
func (e *Executor) callTool(ctx context.Context, action Action) observation {
	e.emitter.Emit(ctx, events.New(events.EventToolCall, events.ToolCallData{
		ID:       action.ID,
		ToolName: action.Tool,
		Input:    action.Input,
	}))

	start := time.Now()

	tool, ok := e.registry.Get(action.Tool)
	var result string
	var isError bool
	if !ok {
		result = fmt.Sprintf("tool '%s' not found, available tools: %s",
			action.Tool, strings.Join(e.registry.Names(), ", "))
		isError = true
	} else {
		out, err := tool.Call(ctx, action.Input)
		if err != nil {
			result = fmt.Sprintf("tool '%s' failed: %v", action.Tool, err)
			isError = true
		} else {
			result = out
		}
	}

	e.emitter.Emit(ctx, events.New(events.EventToolResult, events.ToolResultData{
		ID:       action.ID,
		ToolName: action.Tool,
		Result:   result,
		IsError:  isError,
		Duration: time.Since(start),
	}))
	if isError {
		utils.Warn("agent tool error", "tool", action.Tool, "result", result)
	}

	return observation{action: action, result: result, isError: isError}
}

// formatObservations собирает наблюдения в одно сообщение модели,
// сохраняя порядок запроса действий.
func formatObservations(observations []observation) string {
	if len(observations) == 1 {
		return "Observation: " + observations[0].result
	}

	var sb strings.Builder
	for i, obs := range observations {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Observation for %s (call %s): %s", obs.action.Tool, obs.action.ID, obs.result)
	}
	return sb.String()
}

// fail эмитит ошибку в шину событий и возвращает её.
func (e *Executor) fail(ctx context.Context, err error) error {
	e.emitter.Emit(ctx, events.New(events.EventError, events.ErrorData{Err: err}))
	return err
}
