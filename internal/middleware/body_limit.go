package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// LimitBody rejects a request longer than limit bytes before its multipart
// form is parsed. The app-wide BodyLimit is sized for a full batch, so
// routes that take a single file need this tighter bound.
func LimitBody(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		length := int64(c.Request().Header.ContentLength())
		if length < 0 {
			// Chunked bodies have no declared length; fall back to what was read
			length = int64(len(c.Request().Body()))
		}
		if length > limit {
			return domain.NewRequestTooLarge(limit)
		}
		return c.Next()
	}
}
