package handler

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFormatter(t *testing.T, h func(c *fiber.Ctx) error) (int, Envelope) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestFormatterPublicURL(t *testing.T) {
	f := NewFormatter("uploads/", false)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(f.PublicURL(c, "property-1-ab.png"))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "api.estates.test:8080"
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	buf := make([]byte, 128)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "http://api.estates.test:8080/uploads/property-1-ab.png", string(buf[:n]))
}

func TestFormatterErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"size", domain.NewSizeExceeded(10), 400, string(domain.KindSizeExceeded)},
		{"type", domain.NewInvalidFileType("a.exe", "x"), 400, string(domain.KindInvalidFileType)},
		{"write", domain.NewWriteFailure(errors.New("disk full")), 500, string(domain.KindWriteFailure)},
		{"unknown", errors.New("boom"), 500, "INTERNAL_ERROR"},
		{"fiber", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, ""},
	}

	f := NewFormatter("/uploads", false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := runFormatter(t, func(c *fiber.Ctx) error {
				return f.Error(c, tt.err)
			})
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
			assert.Empty(t, env.Error, "diagnostics must stay hidden")
		})
	}
}

func TestFormatterExposesDiagnosticsOutsideProduction(t *testing.T) {
	f := NewFormatter("/uploads", true)
	status, env := runFormatter(t, func(c *fiber.Ctx) error {
		return f.Error(c, domain.NewWriteFailure(errors.New("disk full")))
	})

	assert.Equal(t, 500, status)
	assert.Equal(t, "upload failed", env.Message)
	assert.Contains(t, env.Error, "disk full")
}

func TestBatchFailurePrefersClientError(t *testing.T) {
	resp := &domain.BatchUploadResponse{Results: []domain.UploadResult{
		{Err: domain.NewWriteFailure(errors.New("io"))},
		{Err: domain.NewInvalidFileType("a.exe", "x")},
	}}
	assert.Equal(t, domain.KindInvalidFileType, batchFailure(resp).Kind)

	allWrite := &domain.BatchUploadResponse{Results: []domain.UploadResult{
		{Err: domain.NewWriteFailure(errors.New("io"))},
	}}
	assert.Equal(t, domain.KindWriteFailure, batchFailure(allWrite).Kind)
}
