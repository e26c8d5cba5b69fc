package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/config"
	"github.com/sandevgo/lingbot/internal/providers/nlu"
	"github.com/sandevgo/lingbot/internal/service/chat"
	"github.com/sandevgo/lingbot/internal/service/session"
	"github.com/sandevgo/lingbot/internal/storage/sqlite"
	"github.com/sandevgo/lingbot/internal/transport/cli"
	lhttp "github.com/sandevgo/lingbot/internal/transport/http"
	"github.com/sandevgo/lingbot/internal/transport/telegram"
	"github.com/sandevgo/lingbot/pkg/log"
	"github.com/sandevgo/lingbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	nluCfg := config.NewNLUConfig(ctx)

	// 2. Answer catalog
	cat, err := catalog.Load(ctx, appCfg.GetCatalogPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	// 3. Storage
	db, transcriptsRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 4. NLU engine
	classifier, err := nlu.NewEngine(ctx, nluCfg, cat)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize NLU engine")
	}

	// 5. Session store with its expiry sweeper
	sessions := session.NewStore(appCfg)
	services = append(services, sessions)

	// 6. Chat service
	picker := chat.NewRandomPicker()
	if appCfg.DeterministicAnswers {
		picker = chat.NewFirstPicker()
	}
	chatSvc := chat.NewService(appCfg, cat, classifier, sessions, transcriptsRepo, picker)

	// 7. Transports
	transports, err := initTransports(ctx, appCfg, chatSvc)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.TranscriptsRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewTranscriptsRepo(db), nil
}

func initTransports(ctx context.Context, cfg *config.AppConfig, chatSvc *chat.Service) ([]srv.Service, error) {
	var services []srv.Service

	// HTTP API
	if cfg.IsHTTPSelected() {
		services = append(services, lhttp.NewServer(ctx, cfg.GetHTTPAddr(), chatSvc))
	}

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, chatSvc)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Interactive terminal chat
	if cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(chatSvc, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
