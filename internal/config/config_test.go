package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"BOT_TOKEN", "ADMIN_ID", "DEFAULT_LOCALE", "CATALOG_DIR", "LOCALES_PATH",
		"MIGRATIONS_PATH", "DICTIONARY_URL", "DONATE_URL", "METRICS_ADDR", "STATS_TIMEZONE",
		"BROADCAST_CONCURRENCY", "LOG_LEVEL", "DB_HOST", "DB_PORT", "DB_NAME",
		"DB_USER", "DB_PASSWORD", "DB_SSLMODE", "AUDIO_DIR", "TTS_LANGUAGE",
		"GOOGLE_TTS_API_KEY", "AUDIO_MAX_AGE", "SESSION_BACKEND", "SESSION_TTL",
		"REDIS_ADDR", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
			SSLMode:  "require",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require"
	assert.Equal(t, expected, dsn)
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, int64(0), cfg.AdminID)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, "data/topics", cfg.CatalogDir)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Empty(t, cfg.LocalesPath, "built-in locale bundle by default")
	assert.Equal(t, "https://buymeacoffee.com/ailingo", cfg.DonateURL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "ailingo", cfg.Database.Name)
	assert.Equal(t, "ailingo", cfg.Database.User)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "audio", cfg.TTS.AudioDir)
	assert.Equal(t, "nl-NL", cfg.TTS.Language)
	assert.Equal(t, 30*time.Minute, cfg.TTS.MaxAge)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, 8, cfg.BroadcastConcurrency)
	assert.Equal(t, "UTC", cfg.StatsTimezone)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("ADMIN_ID", "123456789")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("STATS_TIMEZONE", "Europe/Amsterdam")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(123456789), cfg.AdminID)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		contains string
	}{
		{
			name:     "missing bot token",
			env:      map[string]string{"DB_PASSWORD": "secret"},
			contains: "BOT_TOKEN",
		},
		{
			name:     "missing db password",
			env:      map[string]string{"BOT_TOKEN": "token"},
			contains: "DB_PASSWORD",
		},
		{
			name:     "bad admin id",
			env:      map[string]string{"BOT_TOKEN": "token", "DB_PASSWORD": "secret", "ADMIN_ID": "admin"},
			contains: "ADMIN_ID",
		},
		{
			name:     "bad duration",
			env:      map[string]string{"BOT_TOKEN": "token", "DB_PASSWORD": "secret", "SESSION_TTL": "tomorrow"},
			contains: "SESSION_TTL",
		},
		{
			name:     "unknown session backend",
			env:      map[string]string{"BOT_TOKEN": "token", "DB_PASSWORD": "secret", "SESSION_BACKEND": "memcached"},
			contains: "SESSION_BACKEND",
		},
		{
			name:     "unknown timezone",
			env:      map[string]string{"BOT_TOKEN": "token", "DB_PASSWORD": "secret", "STATS_TIMEZONE": "Mars/Olympus"},
			contains: "STATS_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
