package nlu

import (
	"context"
	"fmt"

	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/config"
	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/pkg/log"
)

// NewEngine creates the appropriate Classifier based on configuration.
func NewEngine(ctx context.Context, cfg *config.NLUConfig, cat *catalog.Catalog) (core.Classifier, error) {
	log.FromCtx(ctx).Info().
		Str("engine", cfg.Engine).
		Str("language", cfg.Language).
		Msg("starting nlu engine")

	switch cfg.Engine {
	case "keyword":
		return NewKeywordEngine(cat), nil
	case "remote":
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("remote nlu engine requires NLU_REMOTE_URL")
		}
		return NewRemoteEngine(cfg.RemoteURL, cfg.Language), nil
	default:
		return nil, fmt.Errorf("unknown nlu engine: %s", cfg.Engine)
	}
}
