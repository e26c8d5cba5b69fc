package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/lingbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"LINGBOT_RUNTIME_PATH" envDefault:".lingbot"`

	// Catalog of intents, answers and entity dictionaries. Empty means the
	// embedded default catalog.
	CatalogPath string `env:"LINGBOT_CATALOG_PATH"`

	// Transport Flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"false"`

	HTTPPort int `env:"PORT" envDefault:"3000"`

	// Response composition
	ScoreThreshold       float64 `env:"SCORE_THRESHOLD" envDefault:"0.6"`
	DeterministicAnswers bool    `env:"FIXED_ANSWER_PICK" envDefault:"false"`

	// Session lifecycle
	HistoryCap           int           `env:"SESSION_HISTORY_CAP" envDefault:"20"`
	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "lingbot.db")
}

func (c AppConfig) GetCatalogPath() string {
	return c.CatalogPath
}

func (c AppConfig) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c AppConfig) IsHTTPSelected() bool {
	return c.EnableHTTP
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}

func (c AppConfig) GetScoreThreshold() float64 {
	return c.ScoreThreshold
}

func (c AppConfig) GetHistoryCap() int {
	return c.HistoryCap
}

func (c AppConfig) GetIdleTimeout() time.Duration {
	return c.SessionIdleTimeout
}

func (c AppConfig) GetSweepInterval() time.Duration {
	return c.SessionSweepInterval
}
