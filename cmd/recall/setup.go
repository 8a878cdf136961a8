package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/internal/providers/embedding"
	"github.com/sandevgo/recallbot/internal/providers/llm"
	"github.com/sandevgo/recallbot/internal/service/agent"
	"github.com/sandevgo/recallbot/internal/service/memory"
	"github.com/sandevgo/recallbot/internal/storage/memstore"
	redisstore "github.com/sandevgo/recallbot/internal/storage/redis"
	"github.com/sandevgo/recallbot/internal/storage/sqlite"
	"github.com/sandevgo/recallbot/internal/tokens"
	"github.com/sandevgo/recallbot/internal/transport/cli"
	"github.com/sandevgo/recallbot/internal/transport/telegram"
	"github.com/sandevgo/recallbot/pkg/log"
	"github.com/sandevgo/recallbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)

	// 2. Window store (Redis when configured, in-process otherwise)
	windowRepo := initWindowStore(ctx, memCfg, &services)

	// 3. Vector index
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	vectorRepo := sqlite.NewVectorRepo(db)

	// 4. Providers
	embedder := embedding.NewOpenAI(config.NewEmbeddingsConfig(ctx))
	aiProvider := llm.NewOpenAICompatible(config.NewLLMConfig(ctx))

	// 5. Memory manager
	mem := memory.NewManager(memCfg, windowRepo, vectorRepo, embedder, newEstimator(memCfg))

	// 6. Agent
	ag := agent.NewAgent(aiProvider, mem, memory.NewSysPrompt(appCfg))

	// 7. Transports
	transports, err := initTransports(ctx, appCfg, ag)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func newEstimator(cfg *config.MemoryConfig) tokens.Estimator {
	if cfg.Tokenizer == config.TokenizerTiktoken {
		return tokens.NewTiktoken()
	}
	return tokens.NewHeuristic()
}

func initWindowStore(ctx context.Context, memCfg *config.MemoryConfig, services *[]srv.Service) core.WindowRepository {
	logger := log.FromCtx(ctx)

	redisCfg := config.NewRedisConfig(ctx)
	if redisCfg.URL == "" {
		logger.Info().Msg("no redis configured, using in-process window store")
		return memstore.NewWindowRepo(memCfg.WindowSize)
	}

	repo, err := redisstore.NewWindowRepo(ctx, redisCfg, memCfg.WindowSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis window store")
	}
	*services = append(*services, srv.NewCleanup(repo.Close))
	return repo
}

func initTransports(ctx context.Context, cfg *config.AppConfig, ag *agent.Agent) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(ag, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, ag)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
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
