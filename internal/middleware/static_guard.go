package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// StoredFilesOnly lets a request under prefix through to the static handler
// only when it names a committed file in the store. In-flight temp files,
// nested paths and directory listings all get a 404.
func StoredFilesOnly(store domain.FileStore, prefix string) fiber.Handler {
	prefix = "/" + strings.Trim(prefix, "/")
	return func(c *fiber.Ctx) error {
		name := strings.TrimPrefix(strings.TrimPrefix(c.Path(), prefix), "/")
		if _, err := store.Stat(name); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
			})
		}
		return c.Next()
	}
}
