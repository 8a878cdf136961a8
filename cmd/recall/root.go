package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "RecallBot — a chat agent with dynamic per-user memory",
	Long:  `RecallBot keeps a bounded window of recent turns plus a similarity index of older ones, and synthesizes both into the model context on every turn.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
