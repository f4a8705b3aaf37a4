// Разбор структурированного ответа модели в решение агента.
package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ilkoid/kimono-ai/pkg/utils"
)

// FinalAnswerAction — значение поля action, означающее финальный ответ.
const FinalAnswerAction = "Final Answer"

// actionEnvelope — форма JSON-ответа модели.
//
// Модель отвечает либо {"action": ..., "action_input": ...}, либо
// {"final_answer": ...}: обе формы встречаются в зависимости от того,
// как модель прочла инструкции.
type actionEnvelope struct {
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
	FinalAnswer json.RawMessage `json:"final_answer"`
}

// Parser превращает сырой текст модели в Decision.
//
// Терпит markdown-обёртку, пояснительный текст вокруг JSON и
// оборванный хвост объекта. Возвращает ErrUnparsable, если после
// всех попыток починки JSON-решение так и не распозналось —
// свободный текст финальным ответом не считается.
type Parser struct{}

// NewParser создаёт парсер ответов агента.
func NewParser() *Parser {
	return &Parser{}
}

// Parse разбирает ответ модели.
func (p *Parser) Parse(raw string) (Decision, error) {
	payload := extractPayload(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON found in %q", ErrUnparsable, truncate(raw, 200))
	}

	if decision, ok := parseEnvelopes(payload); ok {
		return decision, nil
	}
	if decision, ok := parseEnvelopes(utils.RepairJSON(payload)); ok {
		return decision, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnparsable, truncate(raw, 200))
}

// extractPayload достаёт JSON-кандидата из ответа модели.
func extractPayload(raw string) string {
	cleaned := utils.CleanJsonBlock(raw)

	// Массив действий — запрос на параллельный запуск
	if strings.HasPrefix(cleaned, "[") {
		return cleaned
	}
	return utils.ExtractJSON(cleaned)
}

// parseEnvelopes пробует обе формы: одиночный объект и массив.
func parseEnvelopes(payload string) (Decision, bool) {
	var env actionEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err == nil {
		if d, ok := envelopeDecision(env, payload); ok {
			return d, true
		}
	}

	var envs []actionEnvelope
	if err := json.Unmarshal([]byte(payload), &envs); err == nil && len(envs) > 0 {
		var actions []Action
		for _, e := range envs {
			if e.Action == "" || e.Action == FinalAnswerAction {
				return nil, false
			}
			actions = append(actions, Action{
				ID:    uuid.NewString(),
				Tool:  e.Action,
				Input: rawToInput(e.ActionInput),
				Log:   payload,
			})
		}
		return Act{Actions: actions}, true
	}

	return nil, false
}

func envelopeDecision(env actionEnvelope, payload string) (Decision, bool) {
	if len(env.FinalAnswer) > 0 {
		return Finish{Output: rawToInput(env.FinalAnswer)}, true
	}
	if env.Action == "" {
		return nil, false
	}
	if env.Action == FinalAnswerAction {
		return Finish{Output: rawToInput(env.ActionInput)}, true
	}
	return Act{Actions: []Action{{
		ID:    uuid.NewString(),
		Tool:  env.Action,
		Input: rawToInput(env.ActionInput),
		Log:   payload,
	}}}, true
}

// rawToInput приводит action_input к строке: строковое значение —
// как есть, объект или массив — компактным JSON.
func rawToInput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
