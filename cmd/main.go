package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mansoorceksport/estatemedia/internal/config"
	"github.com/mansoorceksport/estatemedia/internal/repository"
	"github.com/mansoorceksport/estatemedia/internal/server"
	"github.com/mansoorceksport/estatemedia/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// Temp files older than this cannot belong to a live request
const stalePartialAge = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("Starting Property Marketplace API...")

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		InstanceID:     cfg.OTEL.InstanceID,
		Token:          cfg.OTEL.Token,
		Enabled:        cfg.OTEL.Enabled,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down OpenTelemetry: %v", err)
		}
	}()

	// Storage root is created once, before the first request
	store, err := repository.NewLocalDiskRepository(cfg.Upload.Dir)
	if err != nil {
		log.Fatalf("Failed to configure upload storage: %v", err)
	}
	if err := store.EnsureRoot(); err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}
	if removed, err := store.SweepPartials(stalePartialAge); err != nil {
		log.Printf("Warning: failed to sweep partial uploads: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d interrupted upload(s)", removed)
	}
	log.Printf("✓ Upload storage ready at %s (max %d bytes per file)", store.Root(), cfg.Upload.MaxFileSize)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("✓ Redis connected")
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		Store:       store,
		RedisClient: redisClient,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server starting on port %s (env: %s)", cfg.Server.Port, cfg.Server.Environment)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
