package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const responseKeyPrefix = "idempotency:"

// RedisCacheRepository implements domain.ResponseCache using Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

// GetResponse returns a cached response body, or domain.ErrCacheMiss
func (r *RedisCacheRepository) GetResponse(ctx context.Context, key string) ([]byte, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", responseKeyPrefix+key)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return nil, domain.ErrCacheMiss
		}
		span.RecordError(err)
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	return data, nil
}

// SetResponse stores a response body with TTL
func (r *RedisCacheRepository) SetResponse(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", responseKeyPrefix+key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
			attribute.Int("cache.size", len(body)),
		),
	)
	defer span.End()

	if err := r.client.Set(ctx, responseKeyPrefix+key, body, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}
