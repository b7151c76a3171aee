package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/estatemedia/internal/config"
	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/mansoorceksport/estatemedia/internal/handler"
	"github.com/mansoorceksport/estatemedia/internal/middleware"
	"github.com/mansoorceksport/estatemedia/internal/repository"
	"github.com/mansoorceksport/estatemedia/internal/service"
	"github.com/mansoorceksport/estatemedia/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config *config.Config
	// Store must be rooted at Config.Upload.Dir; static files are served from there
	Store       domain.FileStore
	RedisClient *redis.Client // optional; enables idempotent upload replay
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize services
	uploadService := service.NewUploadService(
		service.NewValidationFilter(cfg.Upload.MaxFileSize),
		service.NewStorageNamer(),
		deps.Store,
		telemetry.NewUploadMetrics(),
		cfg.Upload.Concurrency,
	)

	// Initialize handlers
	format := handler.NewFormatter(cfg.Upload.PublicPrefix, !cfg.Server.IsProduction())
	uploadHandler := handler.NewUploadHandler(uploadService, format)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Property Marketplace API",
		BodyLimit:    cfg.Upload.BodyLimit(),
		ErrorHandler: newErrorHandler(format),

		// Public URLs are built from X-Forwarded-Proto/Host, so only listed
		// proxies may set them. An empty list trusts no one.
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.Server.TrustedProxies,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Uploaded images are public; the unguessable name is the only protection.
	// Temp files share the directory and must never be served.
	app.Use(cfg.Upload.PublicPrefix, middleware.StoredFilesOnly(deps.Store, cfg.Upload.PublicPrefix))
	app.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir, fiber.Static{
		ByteRange: true,
		MaxAge:    int((24 * time.Hour).Seconds()),
	})

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")

	upload := api.Group("/upload")
	upload.Use(middleware.VerifyToken(cfg.JWT.Secret))
	if deps.RedisClient != nil {
		upload.Use(middleware.IdempotencyMiddleware(repository.NewRedisCacheRepository(deps.RedisClient), cfg.Idempotency.TTL))
	}
	upload.Post("/", middleware.LimitBody(cfg.Upload.SingleBodyLimit()), uploadHandler.UploadImage)
	upload.Post("/multiple", uploadHandler.UploadImages)

	// 404 for everything else
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(handler.Envelope{
			Success: false,
			Message: "Route not found",
		})
	})

	return app
}

// newErrorHandler renders errors that escape handlers in the shared envelope.
// An oversized body is reported the same way as an oversized file.
func newErrorHandler(format *handler.Formatter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok && e.Code == fiber.StatusRequestEntityTooLarge {
			return format.Error(c, domain.NewRequestTooLarge(int64(c.App().Config().BodyLimit)))
		}
		return format.Error(c, err)
	}
}
