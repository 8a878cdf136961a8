package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/recallbot/internal/config"
	redisstore "github.com/sandevgo/recallbot/internal/storage/redis"
	"github.com/sandevgo/recallbot/internal/storage/sqlite"
	"github.com/sandevgo/recallbot/pkg/log"
)

var resetCmd = &cobra.Command{
	Use:   "reset <user-id>",
	Short: "Wipe a user's memory",
	Long:  `Removes the user's recent-turn window and every indexed point. Irreversible.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		userID := args[0]
		logger := log.FromCtx(ctx)

		appCfg := config.NewAppConfig(ctx)
		memCfg := config.NewMemoryConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return fmt.Errorf("failed to open vector storage: %w", err)
		}
		defer db.Close()
		vectors := sqlite.NewVectorRepo(db)

		if err := vectors.Purge(ctx, userID); err != nil {
			return err
		}

		redisCfg := config.NewRedisConfig(ctx)
		if redisCfg.URL == "" {
			// The in-process window store dies with the process; only the
			// index needed purging.
			logger.Info().Str("user_id", userID).Msg("memory reset (no redis window to clear)")
			return nil
		}

		window, err := redisstore.NewWindowRepo(ctx, redisCfg, memCfg.WindowSize)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer window.Close()

		if err := window.Clear(ctx, userID); err != nil {
			return err
		}

		logger.Info().Str("user_id", userID).Msg("memory reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
