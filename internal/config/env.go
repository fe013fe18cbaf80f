package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Telegram transport
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIID       int    `env:"TELEGRAM_API_ID"`
	TelegramAPIHash     string `env:"TELEGRAM_API_HASH"`
	TelegramSessionPath string `env:"TELEGRAM_SESSION_PATH" envDefault:"./telegram_session.json"`

	// Oracle (chat completions)
	DeepSeekAPIKey    string        `env:"DEEPSEEK_API_KEY"`
	DeepSeekURL       string        `env:"DEEPSEEK_URL" envDefault:"https://api.deepseek.com/v1/chat/completions"`
	OracleModel       string        `env:"ORACLE_MODEL" envDefault:"deepseek-chat"`
	OracleTemperature float64       `env:"ORACLE_TEMPERATURE" envDefault:"0.1"`
	OracleTimeout     time.Duration `env:"ORACLE_TIMEOUT" envDefault:"15s"`

	// Persistence
	DatabaseURL  string        `env:"DATABASE_URL" envDefault:"./schedule.db"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	// Misc
	HTTPPort      int    `env:"HTTP_PORT" envDefault:"8080"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"ru"`
	Timezone      string `env:"TIMEZONE" envDefault:"UTC"`
	LogProduction bool   `env:"LOG_PRODUCTION" envDefault:"false"`
}

// LoadFromEnv populates a Config from the process environment.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate fails fast on settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramBotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.TelegramAPIID == 0 || c.TelegramAPIHash == "" {
		errs = append(errs, errors.New("TELEGRAM_API_ID and TELEGRAM_API_HASH are required"))
	}
	if c.OracleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ORACLE_TIMEOUT must be positive, got %s", c.OracleTimeout))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout))
	}
	return errors.Join(errs...)
}

// OracleConfigured reports whether an oracle credential was supplied.
func (c *Config) OracleConfigured() bool {
	return c.DeepSeekAPIKey != ""
}
