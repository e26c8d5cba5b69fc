package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lingbot/pkg/log"
)

type NLUConfig struct {
	// Engine selects the classifier implementation: "keyword" runs the
	// built-in dictionary engine, "remote" calls an external service.
	Engine    string `env:"NLU_ENGINE" envDefault:"keyword"`
	RemoteURL string `env:"NLU_REMOTE_URL"`
	Language  string `env:"NLU_LANGUAGE" envDefault:"zh"`
}

func NewNLUConfig(ctx context.Context) *NLUConfig {
	c := &NLUConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse NLU config")
	}
	return c
}

func (c NLUConfig) GetEngine() string {
	return c.Engine
}

func (c NLUConfig) GetRemoteURL() string {
	return c.RemoteURL
}

func (c NLUConfig) GetLanguage() string {
	return c.Language
}
