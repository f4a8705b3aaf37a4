package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models          ModelsConfig    `yaml:"models"`
	Agent           AgentConfig     `yaml:"agent"`
	Memory          MemoryConfig    `yaml:"memory"`
	S3              S3Config        `yaml:"s3"`
	ImageProcessing ImageProcConfig `yaml:"image_processing"`
	App             AppSpecific     `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat   string              `yaml:"default_chat"`   // Алиас модели для чата по умолчанию
	DefaultVision string              `yaml:"default_vision"` // Алиас vision-модели по умолчанию
	Definitions   map[string]ModelDef `yaml:"definitions"`    // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string        `yaml:"base_url"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`    // Go умеет парсить строки вида "60s", "1m"
	RateLimit   int           `yaml:"rate_limit"` // Запросов в минуту (0 = без лимита)
	BurstLimit  int           `yaml:"burst_limit"`
}

// AgentConfig — параметры цикла агента.
type AgentConfig struct {
	MaxIterations int           `yaml:"max_iterations"` // Бюджет обращений к модели
	ParseRetries  int           `yaml:"parse_retries"`  // Попыток самокоррекции парсинга
	MaxToolErrors int           `yaml:"max_tool_errors"` // Подряд ошибок одного инструмента
	Parallel      bool          `yaml:"parallel"`        // Параллельный запуск инструментов
	Timeout       time.Duration `yaml:"timeout"`         // Дедлайн всего запуска (0 = без лимита)
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *AgentConfig) GetDefaults() AgentConfig {
	result := *c

	if result.MaxIterations == 0 {
		result.MaxIterations = 10
	}
	if result.ParseRetries == 0 {
		result.ParseRetries = 3
	}
	if result.MaxToolErrors == 0 {
		result.MaxToolErrors = 3
	}

	return result
}

// MemoryConfig — настройки памяти диалога.
type MemoryConfig struct {
	Backend    string `yaml:"backend"`     // "buffer", "window", "sqlite", "none"
	WindowSize int    `yaml:"window_size"` // Для backend=window
	Path       string `yaml:"path"`        // Для backend=sqlite
	Session    string `yaml:"session"`     // Идентификатор беседы в sqlite
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled сообщает, сконфигурировано ли хранилище вообще.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// ImageProcConfig — настройки обработки изображений для vision-моделей.
type ImageProcConfig struct {
	MaxWidth int `yaml:"max_width"`
	Quality  int `yaml:"quality"`
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug      bool   `yaml:"debug"`
	PromptsDir string `yaml:"prompts_dir"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из окружения.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Agent = cfg.Agent.GetDefaults()
	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	if c.Models.DefaultVision != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultVision]; !ok {
			return fmt.Errorf("default_vision model '%s' is not defined in definitions", c.Models.DefaultVision)
		}
	}
	if c.Memory.Backend == "sqlite" && c.Memory.Path == "" {
		return fmt.Errorf("memory.path is required for sqlite backend")
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели чата по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// GetVisionModel возвращает конфигурацию vision-модели по умолчанию или по имени.
func (c *AppConfig) GetVisionModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultVision
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
