// Инструмент запуска команд терминала.
package std

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ilkoid/kimono-ai/pkg/tools"
)

// CommandInput — одна команда из входа модели.
type CommandInput struct {
	Cmd  string   `json:"cmd"`
	Args []string `json:"args"`
}

type commandsWrapper struct {
	Commands []CommandInput `json:"commands"`
}

// DisallowedCommand описывает запрещённую комбинацию команды и аргументов.
//
// Пустой Args запрещает команду целиком; непустой — только вызовы,
// содержащие все перечисленные аргументы.
type DisallowedCommand struct {
	Cmd  string
	Args []string
}

// CommandExecutor запускает команды терминала по JSON-входу модели.
//
// Вход — массив команд или объект {"commands": [...]}: обе формы
// встречаются у разных моделей. Команды выполняются по порядку,
// первая упавшая прерывает выполнение.
type CommandExecutor struct {
	platform   string
	disallowed []DisallowedCommand
}

// NewCommandExecutor создаёт инструмент для текущей платформы.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{platform: runtime.GOOS}
}

// WithDisallowedCommands задаёт чёрный список команд.
func (t *CommandExecutor) WithDisallowedCommands(disallowed ...DisallowedCommand) *CommandExecutor {
	t.disallowed = append(t.disallowed, disallowed...)
	return t
}

func (t *CommandExecutor) Name() string {
	return "command_executor"
}

func (t *CommandExecutor) Description() string {
	return fmt.Sprintf(
		`Runs commands on the terminal (platform: %s). `+
			`Input is a JSON array of commands, for example: `+
			`[{"cmd": "ls", "args": []}, {"cmd": "mkdir", "args": ["test"]}]`,
		t.platform)
}

// Call разбирает вход, проверяет чёрный список и выполняет команды.
func (t *CommandExecutor) Call(ctx context.Context, input string) (string, error) {
	commands, err := parseCommands(input)
	if err != nil {
		return "", err
	}
	if len(commands) == 0 {
		return "", fmt.Errorf("command_executor: empty command list")
	}

	var sb strings.Builder
	for _, cmd := range commands {
		if err := t.validate(cmd); err != nil {
			return "", err
		}

		out, err := exec.CommandContext(ctx, cmd.Cmd, cmd.Args...).Output()
		fmt.Fprintf(&sb, "Command: %s\nOutput: %s\n", cmd.Cmd, out)
		if err != nil {
			return "", fmt.Errorf("command_executor: '%s' failed: %w", cmd.Cmd, err)
		}
	}
	return sb.String(), nil
}

func (t *CommandExecutor) validate(cmd CommandInput) error {
	for _, d := range t.disallowed {
		if cmd.Cmd != d.Cmd {
			continue
		}
		if containsAll(cmd.Args, d.Args) {
			return fmt.Errorf("command_executor: command '%s' with arguments %v is disallowed", d.Cmd, d.Args)
		}
	}
	return nil
}

// parseCommands принимает обе формы входа: массив и объект-обёртку.
func parseCommands(input string) ([]CommandInput, error) {
	var wrapper commandsWrapper
	if err := json.Unmarshal([]byte(input), &wrapper); err == nil && wrapper.Commands != nil {
		return wrapper.Commands, nil
	}

	var commands []CommandInput
	if err := json.Unmarshal([]byte(input), &commands); err != nil {
		return nil, fmt.Errorf("command_executor: parse input: %w", err)
	}
	return commands, nil
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var _ tools.Tool = (*CommandExecutor)(nil)
