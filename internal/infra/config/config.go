package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/IT-Nick/quizbot/internal/domain/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigError ошибка конфигурации, запуск невозможен
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var errRequired = errors.New("is required")

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token       string        `yaml:"token"`
		Mode        string        `yaml:"mode"`
		WebhookURL  string        `yaml:"webhook_url"`
		ListenAddr  string        `yaml:"listen_addr"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
	} `yaml:"telegram_bot"`
	Quiz struct {
		QuestionsFile    string        `yaml:"questions_file"`
		DeliveryPolicy   string        `yaml:"delivery_policy"`
		QuestionInterval time.Duration `yaml:"question_interval"`
		MessageRetention time.Duration `yaml:"message_retention"`
	} `yaml:"quiz"`
	Storage struct {
		Type string `yaml:"type"`
	} `yaml:"storage"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Debug bool `yaml:"debug"`
}

// Policy разобранная политика выдачи вопросов
func (c *Config) Policy() model.DeliveryPolicy {
	p, _ := model.ParseDeliveryPolicy(c.Quiz.DeliveryPolicy)
	return p
}

// DatabaseURL строка подключения к PostgreSQL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// Default конфигурация по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.TelegramBot.Mode = "polling"
	cfg.TelegramBot.ListenAddr = ":8443"
	cfg.TelegramBot.PollTimeout = 10 * time.Second
	cfg.Quiz.QuestionsFile = "questions.json"
	cfg.Quiz.DeliveryPolicy = string(model.PolicySequential)
	cfg.Quiz.QuestionInterval = 30 * time.Second
	cfg.Quiz.MessageRetention = 15 * time.Minute
	cfg.Storage.Type = "memory"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	return cfg
}

// LoadConfig читает .env (если есть), YAML-файл (если путь задан) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, &ConfigError{Field: "file", Err: err}
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(config); err != nil {
			return nil, &ConfigError{Field: "file", Err: fmt.Errorf("failed to parse %s: %w", filename, err)}
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.TelegramBot.Token == "" {
		return &ConfigError{Field: "BOT_TOKEN", Err: errRequired}
	}
	switch c.TelegramBot.Mode {
	case "polling":
	case "webhook":
		if c.TelegramBot.WebhookURL == "" {
			return &ConfigError{Field: "WEBHOOK_URL", Err: errors.New("is required in webhook mode")}
		}
	default:
		return &ConfigError{Field: "BOT_MODE", Err: fmt.Errorf("unknown mode %q", c.TelegramBot.Mode)}
	}
	if _, ok := model.ParseDeliveryPolicy(c.Quiz.DeliveryPolicy); !ok {
		return &ConfigError{Field: "DELIVERY_POLICY", Err: fmt.Errorf("unknown policy %q", c.Quiz.DeliveryPolicy)}
	}
	if c.Quiz.QuestionInterval < time.Second {
		return &ConfigError{Field: "QUESTION_INTERVAL", Err: errors.New("must be at least 1s")}
	}
	if c.Quiz.MessageRetention <= 0 {
		return &ConfigError{Field: "MESSAGE_RETENTION", Err: errors.New("must be positive")}
	}
	switch c.Storage.Type {
	case "memory", "postgres":
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Err: fmt.Errorf("unknown storage %q", c.Storage.Type)}
	}
	return nil
}

func applyEnv(c *Config) error {
	// BOT_TOKEN имеет приоритет над TELEGRAM_BOT_TOKEN
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramBot.Token = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.TelegramBot.Token = v
	}
	c.TelegramBot.Token = strings.TrimSpace(c.TelegramBot.Token)

	setString(&c.TelegramBot.Mode, "BOT_MODE")
	setString(&c.TelegramBot.WebhookURL, "WEBHOOK_URL")
	setString(&c.TelegramBot.ListenAddr, "LISTEN_ADDR")
	setString(&c.Quiz.QuestionsFile, "QUESTIONS_FILE")
	setString(&c.Quiz.DeliveryPolicy, "DELIVERY_POLICY")
	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Server.Host, "HTTP_HOST")
	setString(&c.Server.Port, "HTTP_PORT")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")

	for key, dst := range map[string]*time.Duration{
		"POLL_TIMEOUT":      &c.TelegramBot.PollTimeout,
		"QUESTION_INTERVAL": &c.Quiz.QuestionInterval,
		"MESSAGE_RETENTION": &c.Quiz.MessageRetention,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	if v := os.Getenv("DEBUG"); strings.TrimSpace(v) != "" {
		debug, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return &ConfigError{Field: "DEBUG", Err: err}
		}
		c.Debug = debug
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// setDuration принимает "30s", "15m" или число секунд
func setDuration(dst *time.Duration, key string) error {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	raw = strings.TrimSpace(raw)

	if n, err := strconv.Atoi(raw); err == nil {
		*dst = time.Duration(n) * time.Second
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return &ConfigError{Field: key, Err: err}
	}
	*dst = d
	return nil
}
