package main

// @title PetMap Places API
// @version 1.0.0
// @description BFF мини-программы для поиска pet-friendly заведений рядом.
// @description
// @description Основные возможности:
// @description - Проверка разрешения на геолокацию и резервная координата центра города
// @description - Поиск заведений по радиусу, категории и ключевому слову
// @description - Нормализация записей backend в двух формах координат
// @description - Маркеры и viewport карты, синхронизация списка и карты
// @description - Асинхронный поиск через Redis Streams

// @contact.name API Support
// @contact.email support@petmap.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/petmap-service/docs"
	"github.com/petmap-service/internal/config"
	httpDelivery "github.com/petmap-service/internal/delivery/http"
	"github.com/petmap-service/internal/delivery/http/handler"
	"github.com/petmap-service/internal/domain/repository"
	"github.com/petmap-service/internal/infrastructure/placesapi"
	"github.com/petmap-service/internal/infrastructure/platform"
	"github.com/petmap-service/internal/pkg/logger"
	"github.com/petmap-service/internal/repository/cache"
	"github.com/petmap-service/internal/repository/memory"
	redisRepo "github.com/petmap-service/internal/repository/redis"
	"github.com/petmap-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting PetMap Places API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("async_search", cfg.Worker.Enabled),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Redis (только для общих сессий и очереди)
	var redisClient *cache.Redis
	healthChecks := map[string]handler.HealthChecker{}
	if cfg.RedisRequired() {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		healthCtx, healthCancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Health(healthCtx)
		healthCancel()
		if err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}

		healthChecks["redis"] = redisClient
		log.Info("Redis connected")
	}

	// 4. Initialize Repositories
	placeRepo := placesapi.NewPlacesClient(&cfg.Places, log)

	var (
		sessionRepo repository.SessionRepository
		cacheRepo   repository.CacheRepository
		streamRepo  repository.StreamRepository
	)
	if redisClient != nil {
		cacheRepo = cache.NewCacheRepository(redisClient)
	}
	switch cfg.Session.Store {
	case "redis":
		sessionRepo = cache.NewSessionRepository(redisClient, cfg.Session.TTL)
	default:
		memSessions := memory.NewSessionRepository(cfg.Session.TTL, log)
		go memSessions.RunCleanup(ctx, time.Minute)
		sessionRepo = memSessions
	}
	if cfg.Worker.Enabled {
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	log.Info("Repositories initialized")

	// 5. Initialize Use Cases
	settings := usecase.MapSettings{
		Fallback:           cfg.Map.DefaultCoordinate(),
		RadiusOptions:      cfg.Map.RadiusOptions,
		DefaultRadius:      cfg.Map.DefaultRadius,
		WideScaleThreshold: cfg.Map.WideScaleThreshold,
		DetailZoom:         cfg.Map.DetailZoom,
		NormalZoom:         cfg.Map.NormalZoom,
	}

	viewport := usecase.NewViewportBuilder(settings.WideScaleThreshold, settings.Fallback)
	searchUC := usecase.NewPlaceSearchUseCase(
		placeRepo,
		cacheRepo,
		viewport,
		cfg.Cache.SearchCacheTTL,
		log,
	)

	sessionUC := usecase.NewSessionUseCase(
		sessionRepo,
		streamRepo,
		usecase.NewPermissionGate(log),
		usecase.NewLocationProvider(settings.Fallback, log),
		searchUC,
		usecase.NewViewSync(settings.DetailZoom, settings.NormalZoom),
		platform.Factory,
		settings,
		log,
	)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP Handlers
	placesHandler := handler.NewPlacesHandler(searchUC, settings, log)
	sessionHandler := handler.NewSessionHandler(sessionUC, log)
	healthHandler := handler.NewHealthHandler(healthChecks, log)

	// 7. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		placesHandler,
		sessionHandler,
		healthHandler,
	)

	// 8. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
