package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// IdempotencyMiddleware replays upload responses for a repeated X-Correlation-ID.
// A client retrying after a dropped connection gets the original URLs back
// instead of storing the same images a second time. Keys are scoped to the
// authenticated user so one caller cannot read another's response.
func IdempotencyMiddleware(cache domain.ResponseCache, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Only apply to mutating methods
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPatch && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			// No correlation ID = no idempotency check
			return c.Next()
		}

		key := fmt.Sprintf("%s:%s:%s", GetUserID(c), c.Path(), correlationID)

		cached, err := cache.GetResponse(c.UserContext(), key)
		switch {
		case err == nil && len(cached) > 0:
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).Send(cached)
		case err != nil && !errors.Is(err, domain.ErrCacheMiss):
			log.Printf("Warning: idempotency lookup failed for %s: %v", key, err)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Cache successful responses (2xx status codes)
		statusCode := c.Response().StatusCode()
		if statusCode >= 200 && statusCode < 300 {
			if body := c.Response().Body(); len(body) > 0 {
				// fasthttp reuses the response buffer once the handler returns
				payload := append([]byte(nil), body...)
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := cache.SetResponse(ctx, key, payload, ttl); err != nil {
					log.Printf("Warning: failed to cache response for %s: %v", key, err)
				}
			}
		}

		return nil
	}
}
