package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talkbill/internal/config"
	"talkbill/internal/domain/ports/adapter"
	"talkbill/internal/domain/ports/repository"
	aiAdapters "talkbill/internal/infra/adapters/ai"
	pg "talkbill/internal/infra/db/postgres"
	"talkbill/internal/infra/logging"
	"talkbill/internal/infra/metrics"
	red "talkbill/internal/infra/redis"
	"talkbill/internal/infra/sched"
	"talkbill/internal/infra/web"
	"talkbill/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop inference fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Repository, fronted by the Redis turn cache when available ----
	var repo repository.JobRepository = pg.NewJobRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		repo = pg.NewJobRepoCacheDecorator(repo, red.NewTurnCache(redisClient, cfg.Redis.TTL))
	} else {
		logger.Warn().Msg("redis.url not set; running without the turn cache")
	}

	// ---- Inference (Gemini -> OpenAI, noop in dev) ----
	var chain []adapter.InferenceClient
	if cfg.AI.GeminiKey != "" {
		gem, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter failed")
		}
		chain = append(chain, gem)
		logger.Info().Str("model", cfg.AI.Model).Msg("inference provider: gemini")
	}
	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter failed")
		}
		chain = append(chain, oa)
		logger.Info().Msg("inference provider: openai")
	}
	if len(chain) == 0 {
		if !cfg.Runtime.Dev {
			logger.Fatal().Msg("no inference provider configured")
		}
		chain = append(chain, aiAdapters.NewNoopAdapter())
		logger.Warn().Msg("inference provider: noop (dev)")
	}
	client := aiAdapters.NewFailoverAdapter(chain...)

	// ---- Pipeline wiring ----
	invoker := usecase.NewInvoker(client, cfg.AI.MaxRetries, cfg.AI.RetryDelay, logger)
	orchestrator := usecase.NewPipelineOrchestrator(
		repo,
		usecase.NewIntentClassifier(invoker, logger),
		usecase.NewExtractionMergeEngine(invoker, logger),
		usecase.NewCompletionValidator(invoker, logger),
		usecase.NewConversationRouter(invoker, logger),
		cfg.Batch.HistoryLimit,
		logger,
	)
	batch := usecase.NewBatchRunner(repo, orchestrator, cfg.Batch.Limit, cfg.Batch.Concurrency, logger)

	// ---- Batch worker ----
	worker := sched.NewBatchWorker(cfg.Batch.Interval, batch, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Admin server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, 30*time.Minute)
	server := web.NewServer(batch, auth, cfg.Admin.Port, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("admin server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := server.Shutdown(shCtx); err != nil {
		logger.Error().Err(err).Msg("admin server shutdown failed")
	}
}
