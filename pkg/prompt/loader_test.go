package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilkoid/kimono-ai/pkg/llm"
)

const samplePrompt = `
config:
  model: gpt-4o-mini
  temperature: 0.2
  max_tokens: 512
messages:
  - role: system
    content: "Ты ассистент. Контекст: {context}"
  - role: history
    variable: history
  - role: user
    content: "{input}"
`

func TestParsePromptFile(t *testing.T) {
	f, err := Parse([]byte(samplePrompt))
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", f.Config.Model)
	require.Equal(t, 0.2, f.Config.Temperature)
	require.Len(t, f.Messages, 3)
}

func TestPromptFileFormatter(t *testing.T) {
	f, err := Parse([]byte(samplePrompt))
	require.NoError(t, err)

	fmtr, err := f.Formatter()
	require.NoError(t, err)

	messages, err := fmtr.FormatMessages(Vars{
		"context": "tests",
		"input":   "hello",
		"history": []llm.Message{llm.NewUserMessage("prev")},
	})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, llm.RoleSystem, messages[0].Role)
	require.Contains(t, messages[0].Content, "tests")
	require.Equal(t, "prev", messages[1].Content)
	require.Equal(t, "hello", messages[2].Content)
}

func TestParsePromptFileErrors(t *testing.T) {
	_, err := Parse([]byte("config: {}\nmessages: []"))
	require.Error(t, err)

	f, err := Parse([]byte("messages:\n  - role: wizard\n    content: x"))
	require.NoError(t, err)
	_, err = f.Formatter()
	require.Error(t, err)
}
