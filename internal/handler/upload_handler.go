package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
	"github.com/mansoorceksport/estatemedia/internal/middleware"
	"github.com/mansoorceksport/estatemedia/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// UploadHandler handles HTTP requests for media uploads
type UploadHandler struct {
	uploadService domain.UploadService
	format        *Formatter
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService domain.UploadService, format *Formatter) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		format:        format,
	}
}

// UploadImage handles POST /api/upload
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	parts := formParts(c, domain.SingleFileField)
	telemetry.AddSpanEvent(c, "upload.single",
		attribute.Int("upload.parts", len(parts)),
		attribute.String("upload.user_id", middleware.GetUserID(c)),
	)

	result, err := h.uploadService.UploadSingle(c.UserContext(), parts)
	if err != nil {
		return h.format.Error(c, err)
	}
	if result.Err != nil {
		return h.format.Error(c, result.Err)
	}

	return h.format.Success(c, "image uploaded successfully", h.format.File(c, result.File))
}

// UploadImages handles POST /api/upload/multiple
func (h *UploadHandler) UploadImages(c *fiber.Ctx) error {
	parts := formParts(c, domain.BatchFileField)
	telemetry.AddSpanEvent(c, "upload.batch",
		attribute.Int("upload.parts", len(parts)),
		attribute.String("upload.user_id", middleware.GetUserID(c)),
	)

	resp, err := h.uploadService.UploadBatch(c.UserContext(), parts)
	if err != nil {
		return h.format.Error(c, err)
	}

	items := make([]BatchItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, h.format.Item(c, r))
	}

	if resp.Count == 0 {
		return h.format.ErrorWithData(c, batchFailure(resp), items)
	}

	count := resp.Count
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: fmt.Sprintf("%d image(s) uploaded successfully", count),
		Count:   &count,
		Data:    items,
	})
}

// batchFailure picks the error reported when no part was stored. A client
// mistake wins over a storage fault so the caller learns what to fix.
func batchFailure(resp *domain.BatchUploadResponse) *domain.UploadError {
	for _, r := range resp.Results {
		if r.Err != nil && r.Err.ClientCaused() {
			return r.Err
		}
	}
	if first := resp.FirstError(); first != nil {
		return first
	}
	return domain.NewNoFileProvided()
}

// formParts collects the file parts under field. A body that is not a
// multipart form simply has no files.
func formParts(c *fiber.Ctx, field string) []domain.UploadPart {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	headers := form.File[field]
	parts := make([]domain.UploadPart, 0, len(headers))
	for _, fh := range headers {
		parts = append(parts, toUploadPart(fh))
	}
	return parts
}

func toUploadPart(fh *multipart.FileHeader) domain.UploadPart {
	return domain.UploadPart{
		OriginalName:     fh.Filename,
		DeclaredMimeType: fh.Header.Get("Content-Type"),
		DeclaredSize:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
