package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xlab/closer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/omriShneor/schedule_bot/internal/config"
	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/omriShneor/schedule_bot/internal/dialogue"
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/logging"
	"github.com/omriShneor/schedule_bot/internal/oracle"
	"github.com/omriShneor/schedule_bot/internal/server"
	"github.com/omriShneor/schedule_bot/internal/telegram"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogProduction)
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorw("invalid configuration", "error", err)
		closer.Fatalln(err)
	}

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Errorw("unable to initialize database", "error", err)
		closer.Fatalln(err)
	}

	tr := i18n.NewTranslator(cfg.DefaultLocale, logger)
	engine := initEngine(cfg, db, tr, logger)

	handler := telegram.NewHandler(engine, tr, cfg.DefaultLocale, logger)
	tgClient, err := telegram.NewClient(telegram.ClientConfig{
		APIID:       cfg.TelegramAPIID,
		APIHash:     cfg.TelegramAPIHash,
		BotToken:    cfg.TelegramBotToken,
		SessionPath: cfg.TelegramSessionPath,
		Handler:     handler,
		Logger:      logger,
	})
	if err != nil {
		logger.Errorw("unable to create Telegram client", "error", err)
		closer.Fatalln(err)
	}

	srv := server.New(server.ServerConfig{
		DB:       db,
		Telegram: tgClient,
		Port:     cfg.HTTPPort,
		Logger:   logger,
	})

	if err := run(tgClient, srv, logger); err != nil {
		logger.Errorw("bot stopped", "error", err)
		closer.Fatalln(err)
	}
	closer.Close()
}

// run serves until SIGINT/SIGTERM or until a component fails.
func run(tgClient *telegram.Client, srv *server.Server, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tgClient.Run(ctx)
	})
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func initDatabase(cfg *config.Config, logger *zap.SugaredLogger) (*database.DB, error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	closer.Bind(func() {
		if err := db.Close(); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	})
	for _, m := range db.Migrated() {
		logger.Infow("Applied migration", "version", m.Version, "name", m.Name)
	}
	logger.Infow("Database ready", "dialect", string(db.Dialect()))
	return db, nil
}

func initEngine(cfg *config.Config, db *database.DB, tr *i18n.Translator, logger *zap.SugaredLogger) *dialogue.Engine {
	if !cfg.OracleConfigured() {
		logger.Warn("DEEPSEEK_API_KEY not set, text extraction will find nothing")
	}
	client := oracle.NewClient(oracle.Options{
		APIKey:      cfg.DeepSeekAPIKey,
		URL:         cfg.DeepSeekURL,
		Model:       cfg.OracleModel,
		Temperature: &cfg.OracleTemperature,
		Timeout:     cfg.OracleTimeout,
	})

	loc, fellBack := timeutil.ResolveLocation(cfg.Timezone)
	if fellBack {
		logger.Warnw("unknown TIMEZONE, using UTC", "timezone", cfg.Timezone)
	}

	return dialogue.NewEngine(
		dialogue.NewMemoryStore(),
		extract.New(client, logger),
		db,
		tr,
		dialogue.Config{
			OracleTimeout: cfg.OracleTimeout,
			StoreTimeout:  cfg.StoreTimeout,
			Location:      loc,
		},
		logger,
	)
}
