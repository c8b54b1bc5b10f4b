package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ailingo/internal/catalog"
	"ailingo/internal/config"
	"ailingo/internal/dictionary"
	"ailingo/internal/handler"
	"ailingo/internal/i18n"
	"ailingo/internal/metrics"
	"ailingo/internal/middleware"
	"ailingo/internal/repository/postgres"
	"ailingo/internal/service"
	"ailingo/internal/session"
	"ailingo/internal/tts"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting AI Lingo Bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Static data
	words, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		logger.Fatal("Failed to load word catalog", zap.Error(err))
	}
	texts, err := i18n.Load(cfg.LocalesPath, cfg.DefaultLocale)
	if err != nil {
		logger.Fatal("Failed to load locales", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("topics", len(words.Topics())),
		zap.Int("words", len(words.AllWords())),
		zap.Int("locales", len(texts.Locales())),
	)

	location, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid stats timezone", zap.Error(err))
	}

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Session state
	store, err := newSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	sessions := session.NewManager(store, texts.Fallback())

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db, cfg.StatsTimezone)
	progressRepo := postgres.NewProgressRepo(db)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second, AllowedUpdates: allowedUpdates},
		OnError: func(err error, c tele.Context) {
			logger.Error("Unhandled update error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.AdminID)
	wordService := service.NewWordService(words, progressRepo, texts.Fallback(), nil)
	quizService := service.NewQuizService(words, nil)
	statsService := service.NewStatsService(userRepo, location, logger)
	broadcastService := service.NewBroadcastService(userRepo, handler.NewSender(bot), cfg.BroadcastConcurrency, logger)
	dispatcher := service.NewDispatcher(userService, wordService, quizService, statsService, sessions, words, texts, logger)

	speech, err := tts.New(tts.Config{
		Dir:      cfg.TTS.AudioDir,
		Language: cfg.TTS.Language,
		APIKey:   cfg.TTS.APIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech", zap.Error(err))
	}
	if cfg.TTS.APIKey == "" {
		logger.Warn("GOOGLE_TTS_API_KEY is not set, words are sent as text only")
	}

	// Initialize handler
	h := handler.NewHandler(ctx, bot, handler.Deps{
		Dispatcher:  dispatcher,
		Users:       userService,
		Broadcaster: broadcastService,
		Speaker:     speech,
		Definer:     dictionary.New(cfg.DictionaryURL, 10*time.Second),
		Locales:     sessions,
		Texts:       texts,
		DonateURL:   cfg.DonateURL,
	}, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	bot.Use(middleware.Metrics(handler.CommandEndpoints()...))
	bot.Use(limiter.Middleware(h.RateLimited))
	h.RegisterHandlers(middleware.AdminOnly(userService, h.Denied, logger))

	if err := h.PublishCommands(); err != nil {
		logger.Warn("Failed to publish bot commands", zap.Error(err))
	}

	logger.Info("Handlers registered")

	// Background jobs
	go runAudioCleanupJob(ctx, speech, cfg.TTS.MaxAge, logger)
	if mem, ok := store.(*session.MemoryStore); ok {
		go mem.Run(ctx, time.Minute)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info("Metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Bot stopped gracefully")
}

// allowedUpdates includes my_chat_member so blocked users can be marked left
var allowedUpdates = []string{"message", "callback_query", "my_chat_member"}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (session.Store, error) {
	if cfg.Backend != config.SessionRedis {
		logger.Info("Using in-memory sessions", zap.Duration("ttl", cfg.TTL))
		return session.NewMemoryStore(cfg.TTL), nil
	}

	rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	logger.Info("Using redis sessions", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TTL))
	return session.NewRedisStore(rdb, cfg.TTL), nil
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies the versioned schema from dir
func runMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runAudioCleanupJob removes cached audio older than maxAge
func runAudioCleanupJob(ctx context.Context, speech *tts.Client, maxAge time.Duration, logger *zap.Logger) {
	cleanup := func() {
		removed, err := speech.Cleanup(maxAge)
		if err != nil {
			logger.Error("Failed to clean up audio", zap.Error(err))
			return
		}
		if removed > 0 {
			logger.Info("Removed stale audio files", zap.Int("count", removed))
		}
	}

	// Run cleanup once at startup
	cleanup()

	interval := maxAge / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Audio cleanup job stopped")
			return
		case <-ticker.C:
			cleanup()
		}
	}
}
