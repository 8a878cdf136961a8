package config

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	TokenizerHeuristic = "heuristic"
	TokenizerTiktoken  = "tiktoken"
)

// MemoryConfig holds the knobs of the context synthesis engine: window
// capacity W, retrieval cap K, relevance threshold T and token budget B.
type MemoryConfig struct {
	WindowSize         int     `env:"RECALL_WINDOW_SIZE" envDefault:"10"`
	RetrievalLimit     int     `env:"RECALL_RETRIEVAL_LIMIT" envDefault:"5"`
	RelevanceThreshold float64 `env:"RECALL_RELEVANCE_THRESHOLD" envDefault:"0.7"`
	MaxContextTokens   int     `env:"RECALL_MAX_CONTEXT_TOKENS" envDefault:"3000"`
	Tokenizer          string  `env:"RECALL_TOKENIZER" envDefault:"heuristic"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Memory config")
	}
	return c
}

// Validate rejects malformed values at configuration time so that the
// per-request path never has to deal with them.
func (c MemoryConfig) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.RetrievalLimit <= 0 {
		return fmt.Errorf("retrieval limit must be positive, got %d", c.RetrievalLimit)
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return fmt.Errorf("relevance threshold must be in [0,1], got %g", c.RelevanceThreshold)
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("token budget must be positive, got %d", c.MaxContextTokens)
	}
	if c.Tokenizer != TokenizerHeuristic && c.Tokenizer != TokenizerTiktoken {
		return fmt.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
	return nil
}
