package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_API_ID", "42")
	t.Setenv("TELEGRAM_API_HASH", "hash")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, 42, cfg.TelegramAPIID)
	assert.Equal(t, "deepseek-chat", cfg.OracleModel)
	assert.Equal(t, 0.1, cfg.OracleTemperature)
	assert.Equal(t, 15*time.Second, cfg.OracleTimeout)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "ru", cfg.DefaultLocale)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("ORACLE_TIMEOUT", "3s")
	t.Setenv("DATABASE_URL", "postgres://localhost/schedule")
	t.Setenv("LOG_PRODUCTION", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.OracleTimeout)
	assert.Equal(t, "postgres://localhost/schedule", cfg.DatabaseURL)
	assert.True(t, cfg.LogProduction)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing bot token",
			cfg:     Config{TelegramAPIID: 1, TelegramAPIHash: "h", OracleTimeout: time.Second, StoreTimeout: time.Second},
			wantErr: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:    "missing app credentials",
			cfg:     Config{TelegramBotToken: "t", OracleTimeout: time.Second, StoreTimeout: time.Second},
			wantErr: "TELEGRAM_API_ID",
		},
		{
			name:    "zero timeout",
			cfg:     Config{TelegramBotToken: "t", TelegramAPIID: 1, TelegramAPIHash: "h", StoreTimeout: time.Second},
			wantErr: "ORACLE_TIMEOUT",
		},
		{
			name: "valid",
			cfg:  Config{TelegramBotToken: "t", TelegramAPIID: 1, TelegramAPIHash: "h", OracleTimeout: time.Second, StoreTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
