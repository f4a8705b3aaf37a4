// Kimono AI headless runner
// Выполняет одну задачу агента без TUI: результат в stdout, ход — в stderr.
// Режим -prompt прогоняет YAML-файл промпта через одиночную цепочку.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ilkoid/kimono-ai/internal/app"
	"github.com/ilkoid/kimono-ai/pkg/chain"
	"github.com/ilkoid/kimono-ai/pkg/events"
	"github.com/ilkoid/kimono-ai/pkg/llm"
	"github.com/ilkoid/kimono-ai/pkg/llm/openai"
	"github.com/ilkoid/kimono-ai/pkg/prompt"
	"github.com/ilkoid/kimono-ai/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "путь к config.yaml")
	task := flag.String("task", "", "задача для агента")
	promptFile := flag.String("prompt", "", "YAML файл промпта для одиночной цепочки")
	imageFile := flag.String("image", "", "изображение для vision-модели (вместе с -task)")
	vars := flag.String("vars", "", "переменные промпта: key=value,key2=value2")
	verbose := flag.Bool("verbose", false, "печатать ход выполнения в stderr")
	flag.Parse()

	if *task == "" && *promptFile == "" {
		return fmt.Errorf("usage: kimono-agent -task \"...\" [-image file.jpg] | -prompt file.yaml [-vars k=v,...] [-config config.yaml] [-verbose]")
	}

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	a, err := app.New(app.FindConfig(*configPath))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *promptFile != "" {
		return runPromptFile(ctx, a, *promptFile, *vars)
	}

	if *imageFile != "" {
		return runVision(ctx, a, *task, *imageFile)
	}

	if *verbose {
		go printEvents(a.Emitter.Subscribe())
	} else {
		go drainEvents(a.Emitter.Subscribe())
	}

	output, err := a.Executor.Run(ctx, *task)
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}

// runPromptFile собирает LLMChain из YAML-файла и печатает результат.
//
// Модель и параметры генерации берутся из секции config файла;
// при пустой модели используется default_chat из конфигурации.
func runPromptFile(ctx context.Context, a *app.App, path, rawVars string) error {
	file, err := prompt.Load(path)
	if err != nil {
		return err
	}
	formatter, err := file.Formatter()
	if err != nil {
		return err
	}

	modelDef, ok := a.Config.GetChatModel(file.Config.Model)
	if !ok {
		return fmt.Errorf("model %q is not defined in config", file.Config.Model)
	}
	provider := openai.NewClient(modelDef)

	var genOpts []llm.GenerateOption
	if file.Config.Temperature != 0 {
		genOpts = append(genOpts, llm.WithTemperature(file.Config.Temperature))
	}
	if file.Config.MaxTokens != 0 {
		genOpts = append(genOpts, llm.WithMaxTokens(file.Config.MaxTokens))
	}
	if file.Config.Format != "" {
		genOpts = append(genOpts, llm.WithFormat(file.Config.Format))
	}

	c, err := chain.NewLLMChain(provider, formatter, chain.WithGenerateOptions(genOpts...))
	if err != nil {
		return err
	}

	out, err := c.Call(ctx, parseVars(rawVars))
	if err != nil {
		return err
	}
	text, _ := out.Text(chain.OutputKey)
	fmt.Println(text)
	return nil
}

// runVision выполняет одиночный vision-запрос: картинка + текст задачи.
//
// Изображение ужимается по конфигурации image_processing и уходит в
// модель как data URI. Агентный цикл здесь не используется.
func runVision(ctx context.Context, a *app.App, task, imagePath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	maxWidth := a.Config.ImageProcessing.MaxWidth
	quality := a.Config.ImageProcessing.Quality
	if quality == 0 {
		quality = 85
	}
	jpegData, err := utils.ResizeImage(data, maxWidth, quality)
	if err != nil {
		return err
	}

	modelDef, ok := a.Config.GetVisionModel("")
	if !ok {
		return fmt.Errorf("no vision model configured (models.default_vision)")
	}
	provider := openai.NewClient(modelDef)

	message := llm.NewUserMessage(task).WithImages(utils.ImageDataURI(jpegData))
	reply, err := provider.Generate(ctx, []llm.Message{message})
	if err != nil {
		return err
	}

	fmt.Println(reply.Content)
	return nil
}

// parseVars разбирает "key=value,key2=value2".
func parseVars(raw string) prompt.Vars {
	vars := prompt.Vars{}
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = value
	}
	return vars
}

// printEvents пишет ход выполнения в stderr.
func printEvents(sub events.Subscriber) {
	for event := range sub.Events() {
		switch data := event.Data.(type) {
		case events.ThinkingData:
			fmt.Fprintf(os.Stderr, "-- thinking (step %d)\n", data.Iteration)
		case events.ToolCallData:
			fmt.Fprintf(os.Stderr, "-- tool %s(%s)\n", data.ToolName, data.Input)
		case events.ToolResultData:
			status := "ok"
			if data.IsError {
				status = "error"
			}
			fmt.Fprintf(os.Stderr, "-- tool %s %s in %s\n", data.ToolName, status, data.Duration)
		case events.ErrorData:
			fmt.Fprintf(os.Stderr, "-- error: %v\n", data.Err)
		}
	}
}

// drainEvents вычитывает шину, чтобы эмиттер не блокировался.
func drainEvents(sub events.Subscriber) {
	for range sub.Events() {
	}
}
