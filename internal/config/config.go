package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	BotToken             string
	AdminID              int64
	DefaultLocale        string
	CatalogDir           string
	LocalesPath          string
	MigrationsPath       string
	DictionaryURL        string
	DonateURL            string
	MetricsAddr          string
	StatsTimezone        string
	BroadcastConcurrency int
	LogLevel             string
	Database             DatabaseConfig
	TTS                  TTSConfig
	Session              SessionConfig
	RateLimit            RateLimitConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// TTSConfig holds speech synthesis settings
type TTSConfig struct {
	AudioDir string
	Language string
	APIKey   string
	MaxAge   time.Duration
}

// SessionConfig selects where per-user session state lives
type SessionConfig struct {
	Backend   string
	TTL       time.Duration
	RedisAddr string
}

// RateLimitConfig bounds how fast a single user may send updates
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		BotToken:             os.Getenv("BOT_TOKEN"),
		AdminID:              p.getInt64("ADMIN_ID", 0),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "en"),
		CatalogDir:           getEnv("CATALOG_DIR", "data/topics"),
		LocalesPath:          getEnv("LOCALES_PATH", ""),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "migrations"),
		DictionaryURL:        getEnv("DICTIONARY_URL", "https://api.dictionaryapi.dev/api/v2/entries/en"),
		DonateURL:            getEnv("DONATE_URL", "https://buymeacoffee.com/ailingo"),
		MetricsAddr:          getEnv("METRICS_ADDR", ":9090"),
		StatsTimezone:        getEnv("STATS_TIMEZONE", "UTC"),
		BroadcastConcurrency: p.getInt("BROADCAST_CONCURRENCY", 8),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "ailingo"),
			User:     getEnv("DB_USER", "ailingo"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		TTS: TTSConfig{
			AudioDir: getEnv("AUDIO_DIR", "audio"),
			Language: getEnv("TTS_LANGUAGE", "nl-NL"),
			APIKey:   os.Getenv("GOOGLE_TTS_API_KEY"),
			MaxAge:   p.getDuration("AUDIO_MAX_AGE", 30*time.Minute),
		},
		Session: SessionConfig{
			Backend:   getEnv("SESSION_BACKEND", SessionMemory),
			TTL:       p.getDuration("SESSION_TTL", 24*time.Hour),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		RateLimit: RateLimitConfig{
			RPS:   p.getFloat("RATE_LIMIT_RPS", 2),
			Burst: p.getInt("RATE_LIMIT_BURST", 5),
		},
	}
	if p.err != nil {
		return nil, p.err
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Session.Backend != SessionMemory && cfg.Session.Backend != SessionRedis {
		return nil, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionMemory, SessionRedis, cfg.Session.Backend)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("STATS_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone used to bucket join days and weeks
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.StatsTimezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser reads typed variables and keeps the first parse error
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != "" && p.err == nil
}

func (p *parser) fail(key, value string, err error) {
	p.err = fmt.Errorf("%s: invalid value %q: %w", key, value, err)
}

func (p *parser) getInt(key string, defaultValue int) int {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *parser) getInt64(key string, defaultValue int64) int64 {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *parser) getFloat(key string, defaultValue float64) float64 {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return f
}

func (p *parser) getDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return d
}
