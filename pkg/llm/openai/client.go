// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Работает с любым endpoint, говорящим на протоколе Chat Completions
// (OpenAI, Zai, DeepSeek, локальные серверы) — достаточно задать BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ilkoid/kimono-ai/pkg/config"
	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/utils"
)

// Client реализует llm.Provider и llm.StreamingProvider.
//
// Поддерживает:
//   - базовую и потоковую генерацию текста
//   - Vision запросы (изображения в сообщениях)
//   - rate limiting на уровне клиента
type Client struct {
	api     *openai.Client
	model   string
	limiter *rate.Limiter

	temperature float64
	maxTokens   int
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// RateLimit из конфигурации (запросов в минуту) применяется ко всем
// вызовам клиента, включая потоковые.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	var limiter *rate.Limiter
	if modelDef.RateLimit > 0 {
		burst := modelDef.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(modelDef.RateLimit)/60.0), burst)
	}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       modelDef.ModelName,
		limiter:     limiter,
		temperature: modelDef.Temperature,
		maxTokens:   modelDef.MaxTokens,
	}
}

// Generate выполняет один запрос к API и возвращает ответ модели.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	startTime := time.Now()
	req := c.buildRequest(messages, llm.ApplyOptions(opts...))

	utils.Debug("LLM request started", "model", req.Model, "messages_count", len(messages))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", req.Model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0].Message
	utils.Info("LLM response received",
		"model", req.Model,
		"content_length", len(choice.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.Message{
		Role:    llm.Role(choice.Role),
		Content: choice.Content,
	}, nil
}

// GenerateStream выполняет запрос с потоковой передачей ответа.
//
// callback получает каждую дельту в порядке прихода; его ошибка
// прерывает стрим и возвращается наружу как есть.
func (c *Client) GenerateStream(ctx context.Context, messages []llm.Message, callback llm.StreamFunc, opts ...llm.GenerateOption) (llm.Message, error) {
	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	startTime := time.Now()
	req := c.buildRequest(messages, llm.ApplyOptions(opts...))
	req.Stream = true

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return llm.Message{}, fmt.Errorf("openai stream error: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return llm.Message{}, fmt.Errorf("openai stream recv: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)

		if err := callback(llm.StreamChunk{Delta: delta, Content: full.String()}); err != nil {
			return llm.Message{}, err
		}
	}

	if err := callback(llm.StreamChunk{Content: full.String(), Done: true}); err != nil {
		return llm.Message{}, err
	}

	utils.Info("LLM stream finished",
		"model", req.Model,
		"content_length", full.Len(),
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.NewAIMessage(full.String()), nil
}

// wait блокируется до разрешения rate limiter'а.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// buildRequest собирает запрос из дефолтов клиента и опций вызова.
func (c *Client) buildRequest(messages []llm.Message, o llm.GenerateOptions) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
		MaxTokens:   c.maxTokens,
	}

	if o.Model != "" {
		req.Model = o.Model
	}
	if o.Temperature != 0 {
		req.Temperature = float32(o.Temperature)
	}
	if o.MaxTokens != 0 {
		req.MaxTokens = o.MaxTokens
	}
	if o.TopP != 0 {
		req.TopP = float32(o.TopP)
	}
	if o.Seed != 0 {
		seed := o.Seed
		req.Seed = &seed
	}
	if len(o.StopWords) > 0 {
		req.Stop = o.StopWords
	}
	if o.Format == "json_object" {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	req.Messages = make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		req.Messages[i] = mapToOpenAI(m)
	}
	return req
}

// mapToOpenAI конвертирует внутреннее сообщение в формат SDK.
// Если есть картинки, собираем MultiContent для Vision запроса.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role: string(m.Role),
	}
	if m.ToolCallID != "" {
		msg.ToolCallID = m.ToolCallID
	}

	if len(m.Images) == 0 {
		msg.Content = m.Content
		return msg
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: m.Content,
		},
	}
	for _, imgURL := range m.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    imgURL, // base64 data-uri или http ссылка
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	msg.MultiContent = parts
	return msg
}

var (
	_ llm.Provider          = (*Client)(nil)
	_ llm.StreamingProvider = (*Client)(nil)
)
