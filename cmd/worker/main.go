package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/petmap-service/internal/config"
	"github.com/petmap-service/internal/infrastructure/placesapi"
	"github.com/petmap-service/internal/infrastructure/platform"
	"github.com/petmap-service/internal/pkg/logger"
	"github.com/petmap-service/internal/repository/cache"
	redisRepo "github.com/petmap-service/internal/repository/redis"
	"github.com/petmap-service/internal/usecase"
	"github.com/petmap-service/internal/worker"
	"github.com/petmap-service/internal/worker/search"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Place Search Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	placeRepo := placesapi.NewPlacesClient(&cfg.Places, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	sessionRepo := cache.NewSessionRepository(redisClient, cfg.Session.TTL)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 5. Initialize use cases
	settings := usecase.MapSettings{
		Fallback:           cfg.Map.DefaultCoordinate(),
		RadiusOptions:      cfg.Map.RadiusOptions,
		DefaultRadius:      cfg.Map.DefaultRadius,
		WideScaleThreshold: cfg.Map.WideScaleThreshold,
		DetailZoom:         cfg.Map.DetailZoom,
		NormalZoom:         cfg.Map.NormalZoom,
	}

	searchUC := usecase.NewPlaceSearchUseCase(
		placeRepo,
		cacheRepo,
		usecase.NewViewportBuilder(settings.WideScaleThreshold, settings.Fallback),
		cfg.Cache.SearchCacheTTL,
		log,
	)

	// Воркер не публикует запросы, поэтому streamRepo в use case не нужен
	sessionUC := usecase.NewSessionUseCase(
		sessionRepo,
		nil,
		usecase.NewPermissionGate(log),
		usecase.NewLocationProvider(settings.Fallback, log),
		searchUC,
		usecase.NewViewSync(settings.DetailZoom, settings.NormalZoom),
		platform.Factory,
		settings,
		log,
	)

	// 6. Initialize workers
	searchWorker := search.NewPlaceSearchWorker(
		streamRepo,
		sessionUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, 30*time.Second)
	workerManager.Register(searchWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Сначала Stop: текущий батч дорабатывает с живым ctx
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
