package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/pkg/log"
)

// RedisConfig configures the window store backend. An empty URL selects
// the in-process store, which keeps local CLI mode dependency-free.
type RedisConfig struct {
	URL      string `env:"RECALL_REDIS_URL"`
	DB       int    `env:"RECALL_REDIS_DB" envDefault:"0"`
	Password string `env:"RECALL_REDIS_PASSWORD"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}
