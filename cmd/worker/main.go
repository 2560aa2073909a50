package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"lendflow/internal/cache"
	"lendflow/internal/config"
	"lendflow/internal/database"
	"lendflow/internal/log"
	"lendflow/internal/queue"
	"lendflow/internal/repository"
	"lendflow/internal/service"
	"lendflow/internal/storage"
	"lendflow/internal/tasks"
)

const claimInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("worker", cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBuckets(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure buckets failed")
	}

	documentRepo := repository.NewDocumentRepository(dbPool)
	offerRepo := repository.NewOfferRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)

	documentSvc := service.NewDocumentService(
		documentRepo,
		objectStore,
		objectStore.DocumentsBucket(),
		cfg.Documents,
		cfg.Security.DownloadSecret,
		logger,
	)

	processor := tasks.NewProcessor(documentSvc, offerRepo, userRepo, objectStore, logger)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Redis.Stream,
		cfg.Redis.Group,
		cfg.Redis.Consumer,
		claimInterval,
		logger,
		processor,
	)

	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("consumer group setup failed")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := consumer.Start(runCtx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
