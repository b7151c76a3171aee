package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitBody(t *testing.T) {
	var reached bool
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ue, ok := domain.AsUploadError(err); ok {
				return c.Status(ue.HTTPStatus()).SendString(string(ue.Kind))
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Post("/upload", LimitBody(16), func(c *fiber.Ctx) error {
		reached = true
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name       string
		size       int
		wantStatus int
		wantReach  bool
	}{
		{"under limit", 8, fiber.StatusNoContent, true},
		{"exact limit", 16, fiber.StatusNoContent, true},
		{"over limit", 17, fiber.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest("POST", "/upload", bytes.NewReader(make([]byte, tt.size)))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantReach, reached)
		})
	}
}
