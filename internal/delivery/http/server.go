package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/petmap-service/internal/config"
	"github.com/petmap-service/internal/delivery/http/handler"
	"github.com/petmap-service/internal/delivery/http/middleware"
	"github.com/petmap-service/internal/pkg/errors"
	"github.com/petmap-service/internal/pkg/metrics"
	"github.com/petmap-service/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	placesHandler  *handler.PlacesHandler
	sessionHandler *handler.SessionHandler
	healthHandler  *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	placesHandler *handler.PlacesHandler,
	sessionHandler *handler.SessionHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "PetMap Places BFF",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		placesHandler:  placesHandler,
		sessionHandler: sessionHandler,
		healthHandler:  healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber приложение, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(metrics.Middleware())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/metrics", metrics.Handler())

	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Check)

	// Поиск без сессии
	api.Get("/search/options", s.placesHandler.Options)
	api.Get("/places/nearby", s.placesHandler.Nearby)
	api.Get("/places/nearby.geojson", s.placesHandler.NearbyGeoJSON)

	// Экран поиска
	sessions := api.Group("/sessions")
	sessions.Post("", s.sessionHandler.Start)
	sessions.Get("/:id", s.sessionHandler.Get)
	sessions.Post("/:id/locate", s.sessionHandler.Locate)
	sessions.Post("/:id/permission", s.sessionHandler.RequestPermission)
	sessions.Post("/:id/search", s.sessionHandler.Search)
	sessions.Post("/:id/search/async", s.sessionHandler.SearchAsync)
	sessions.Post("/:id/focus", s.sessionHandler.Focus)
	sessions.Post("/:id/markers/:marker_id/tap", s.sessionHandler.TapMarker)
	sessions.Post("/:id/map-error", s.sessionHandler.MapError)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (404 роутера, паники, AppError из middleware)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := errors.As(err); ok {
			return utils.SendError(c, appErr)
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		message := err.Error()
		if code >= fiber.StatusInternalServerError {
			message = errors.ErrInternalServer.Message
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New(httpErrorCode(code), message, code),
		})
	}
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	default:
		if status < fiber.StatusInternalServerError {
			return "BAD_REQUEST"
		}
		return "INTERNAL_SERVER_ERROR"
	}
}
