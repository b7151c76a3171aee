package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Upload      UploadConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Idempotency IdempotencyConfig
	OTEL        OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string
	Environment string
	CORSOrigins string

	// Forwarded headers are honoured only from these addresses or CIDRs
	TrustedProxies []string
}

// IsProduction reports whether diagnostic details must be hidden from clients
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// UploadConfig holds media ingestion configuration
type UploadConfig struct {
	Dir           string
	MaxFileSize   int64
	MaxBatchFiles int
	PublicPrefix  string
	Concurrency   int
}

// multipartOverhead is the room left for boundaries and part headers
const multipartOverhead = 1 << 20

// BodyLimit is the largest multipart request the server will read:
// a full batch at the per-file cap plus room for part headers.
func (u UploadConfig) BodyLimit() int {
	return int(u.MaxFileSize)*u.MaxBatchFiles + multipartOverhead
}

// SingleBodyLimit is the largest request accepted by the single-image route
func (u UploadConfig) SingleBodyLimit() int64 {
	return u.MaxFileSize + multipartOverhead
}

// JWTConfig holds the secret used to verify access tokens
type JWTConfig struct {
	Secret string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
}

// IdempotencyConfig controls replay of upload responses by correlation ID
type IdempotencyConfig struct {
	TTL time.Duration
}

// OTELConfig holds OpenTelemetry exporter configuration
type OTELConfig struct {
	Enabled        bool
	Endpoint       string
	InstanceID     string
	Token          string
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Environment:    env,
			CORSOrigins:    getEnv("CORS_ORIGIN", "*"),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./uploads"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
			MaxBatchFiles: domain.MaxBatchFiles,
			PublicPrefix:  "/uploads",
			Concurrency:   int(getEnvAsInt64("UPLOAD_CONCURRENCY", 4)),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Idempotency: IdempotencyConfig{
			TTL: time.Duration(getEnvAsInt64("IDEMPOTENCY_TTL_SECONDS", 600)) * time.Second,
		},
		OTEL: OTELConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			InstanceID:     getEnv("OTEL_INSTANCE_ID", ""),
			Token:          getEnv("OTEL_TOKEN", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "estatemedia-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    env,
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Defaults returns a configuration with every default applied and no
// environment lookups. Callers still need to set JWT.Secret.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "3000", Environment: "development", CORSOrigins: "*"},
		Upload: UploadConfig{
			Dir:           "./uploads",
			MaxFileSize:   5 * 1024 * 1024,
			MaxBatchFiles: domain.MaxBatchFiles,
			PublicPrefix:  "/uploads",
			Concurrency:   4,
		},
		Idempotency: IdempotencyConfig{TTL: 10 * time.Minute},
		OTEL:        OTELConfig{ServiceName: "estatemedia-api", Environment: "development"},
	}
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Upload.MaxFileSize)
	}
	if c.Upload.Concurrency <= 0 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be positive, got %d", c.Upload.Concurrency)
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
