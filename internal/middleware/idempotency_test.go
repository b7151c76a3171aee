package middleware

import (
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentApp(t *testing.T) (*fiber.App, *int32, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	var calls int32
	app := fiber.New()
	app.Use(IdempotencyMiddleware(repository.NewRedisCacheRepository(client), time.Minute))
	app.Post("/upload", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.JSON(fiber.Map{"success": true, "call": n})
	})
	app.Post("/fail", func(c *fiber.Ctx) error {
		atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	})
	return app, &calls, mr
}

func post(t *testing.T, app *fiber.App, path, correlationID string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, nil)
	if correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header.Get("X-Idempotent-Replay")
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	app, calls, _ := newIdempotentApp(t)

	status, first, replay := post(t, app, "/upload", "abc-1")
	assert.Equal(t, 200, status)
	assert.Empty(t, replay)

	status, second, replay := post(t, app, "/upload", "abc-1")
	assert.Equal(t, 200, status)
	assert.Equal(t, "true", replay)
	assert.JSONEq(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestIdempotencySkipsWithoutHeader(t *testing.T) {
	app, calls, _ := newIdempotentApp(t)

	post(t, app, "/upload", "")
	post(t, app, "/upload", "")
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	app, calls, mr := newIdempotentApp(t)

	status, _, _ := post(t, app, "/fail", "xyz")
	assert.Equal(t, 400, status)
	post(t, app, "/fail", "xyz")

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotencyKeyExpires(t *testing.T) {
	app, calls, mr := newIdempotentApp(t)

	post(t, app, "/upload", "ttl")
	mr.FastForward(2 * time.Minute)
	_, _, replay := post(t, app, "/upload", "ttl")

	assert.Empty(t, replay)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}
