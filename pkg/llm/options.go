// Package llm provides options pattern for LLM generation parameters.
//
// Functional options позволяют переопределять параметры генерации
// на каждый вызов, сохраняя дефолты из конфигурации.
package llm

// GenerateOptions holds parameters for LLM generation.
//
// Нулевое значение поля означает "использовать дефолт провайдера".
// Провайдеры игнорируют поля, которые их API не поддерживает, —
// неизвестная опция не является ошибкой.
type GenerateOptions struct {
	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	// Temperature controls randomness (0.0 = deterministic)
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int

	// Format specifies response format ("json_object" or empty)
	Format string

	// StopWords останавливают генерацию при появлении любой из строк
	StopWords []string

	// TopP — nucleus sampling
	TopP float64

	// Seed — детерминизация сэмплирования (0 = не задан)
	Seed int
}

// GenerateOption is a functional option for configuring GenerateOptions.
type GenerateOption func(*GenerateOptions)

// ApplyOptions собирает GenerateOptions из списка опций.
func ApplyOptions(opts ...GenerateOption) GenerateOptions {
	var o GenerateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithModel sets the model for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithTemperature sets the temperature for generation.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens sets the maximum tokens for generation.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// WithFormat sets the response format for generation.
// Use "json_object" for structured JSON output.
func WithFormat(format string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Format = format
	}
}

// WithStopWords sets stop sequences for generation.
func WithStopWords(words ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.StopWords = words
	}
}

// WithTopP sets nucleus sampling threshold.
func WithTopP(topP float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.TopP = topP
	}
}

// WithSeed sets the sampling seed.
func WithSeed(seed int) GenerateOption {
	return func(o *GenerateOptions) {
		o.Seed = seed
	}
}
