package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/service/agent"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	defaultUserID    = "cli-local"
	defaultSessionID = "cli-local"
)

type ReadLine struct {
	cfg   *config.AppConfig
	agent *agent.Agent
	rl    *readline.Instance
}

func NewReadLine(agent *agent.Agent, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:   cfg,
		agent: agent,
		rl:    rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit, '/reset' to wipe memory.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if line == "/reset" {
			if err := r.agent.Reset(ctx, defaultUserID); err != nil {
				logger.Error().Err(err).Msg("memory reset failed")
				fmt.Fprintln(r.rl.Stdout(), "reset failed")
				continue
			}
			fmt.Fprintln(r.rl.Stdout(), "memory wiped")
			continue
		}

		reply, err := r.agent.Run(ctx, defaultUserID, defaultSessionID, line)
		if err != nil {
			logger.Error().Err(err).Msg("agent run failed")
			fmt.Fprintf(r.rl.Stdout(), "error: %v\n", err)
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), reply)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	return r.rl.Close()
}
