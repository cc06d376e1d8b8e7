package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/hj010/Image-Process/internal/config"
	"github.com/hj010/Image-Process/internal/helpers"
	infradatabase "github.com/hj010/Image-Process/internal/infrastructure/database"
	"github.com/hj010/Image-Process/internal/infrastructure/fetcher"
	"github.com/hj010/Image-Process/internal/infrastructure/kafka"
	"github.com/hj010/Image-Process/internal/infrastructure/processor"
	"github.com/hj010/Image-Process/internal/infrastructure/storage"
	"github.com/hj010/Image-Process/internal/infrastructure/webhook"
	"github.com/hj010/Image-Process/internal/repository/postgres"
	"github.com/hj010/Image-Process/internal/retry"
	"github.com/hj010/Image-Process/internal/usecase"
	"github.com/hj010/Image-Process/internal/worker"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting Batch Image Processor Worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	connectRetries := cfg.Database.ConnectRetries
	connectDelay := cfg.Database.ConnectRetryDelaySec
	if connectRetries == 0 {
		connectRetries = 15
	}
	if connectDelay == 0 {
		connectDelay = 3
	}

	masterDSN := cfg.Database.DSN
	slaves := []string{}
	if strings.TrimSpace(cfg.Database.Slaves) != "" {
		slaves = helpers.SplitAndTrim(cfg.Database.Slaves, ",")
	}
	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
	}

	database, err := infradatabase.ConnectWithRetries(masterDSN, slaves, dbOpts, connectRetries, connectDelay)
	if err != nil || database == nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database after all retries")
	}

	// Run migrations
	zlog.Logger.Info().Msg("Running database migrations...")
	if err := infradatabase.RunMigrations(database, cfg.Migrations.Path); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Migrations warning (might be already applied)")
	}

	// Setup Artifact Storage
	artifactStore, err := storage.New(&cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize artifact storage")
	}

	// Processing collaborators
	imageFetcher := fetcher.NewHTTPFetcher(&cfg.Processing, retry.DefaultStrategy)
	imageTranscoder := processor.NewImageTranscoder(&cfg.Processing)
	webhookNotifier := webhook.NewHTTPNotifier(&cfg.Webhook, retry.DefaultStrategy)

	// Repository + Usecase + Worker
	repo := postgres.NewRequestRepository(database, retry.DefaultStrategy)
	processorUsecase := usecase.NewProcessorUsecase(
		repo,
		imageFetcher,
		imageTranscoder,
		artifactStore,
		webhookNotifier,
		cfg.Processing.FetchConcurrency,
	)
	requestWorker := worker.NewRequestWorker(processorUsecase)

	// Kafka Consumer
	kafkaConsumer, err := kafka.NewConsumer(&cfg.Kafka, requestWorker.HandleProcessingTask)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize Kafka consumer")
	}
	defer kafkaConsumer.Close()

	go func() {
		if err := kafkaConsumer.Start(ctx); err != nil {
			zlog.Logger.Error().Err(err).Msg("Kafka consumer error")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")

	if database != nil && database.Master != nil {
		database.Master.Close()
		for _, s := range database.Slaves {
			if s != nil {
				s.Close()
			}
		}
	}

	zlog.Logger.Info().Msg("Worker shutdown complete")
}
