package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// Envelope is the response shape shared by every endpoint
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// FileResponse describes one stored file to the caller
type FileResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

// BatchItem is one entry of a batch response, successful or not
type BatchItem struct {
	Success      bool   `json:"success"`
	OriginalName string `json:"originalName"`
	Filename     string `json:"filename,omitempty"`
	URL          string `json:"url,omitempty"`
	Size         int64  `json:"size,omitempty"`
	MimeType     string `json:"mimetype,omitempty"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Formatter builds public URLs and envelopes
type Formatter struct {
	publicPrefix string
	exposeErrors bool
}

// NewFormatter creates a formatter. exposeErrors adds diagnostic text to
// failure envelopes and must be off in production.
func NewFormatter(publicPrefix string, exposeErrors bool) *Formatter {
	return &Formatter{
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		exposeErrors: exposeErrors,
	}
}

// PublicURL derives the address of storedName from the scheme and host the
// request actually arrived with, so it stays correct behind any proxy.
func (f *Formatter) PublicURL(c *fiber.Ctx, storedName string) string {
	return c.BaseURL() + f.publicPrefix + "/" + storedName
}

// File maps a stored file to its response body
func (f *Formatter) File(c *fiber.Ctx, file *domain.StoredFile) FileResponse {
	return FileResponse{
		Filename: file.StoredName,
		URL:      f.PublicURL(c, file.StoredName),
		Size:     file.SizeBytes,
		MimeType: file.MimeType,
	}
}

// Item maps one batch result to its response entry
func (f *Formatter) Item(c *fiber.Ctx, r domain.UploadResult) BatchItem {
	item := BatchItem{Success: r.Succeeded(), OriginalName: r.OriginalName}
	if r.Succeeded() {
		item.Filename = r.File.StoredName
		item.URL = f.PublicURL(c, r.File.StoredName)
		item.Size = r.File.SizeBytes
		item.MimeType = r.File.MimeType
		return item
	}
	if r.Err != nil {
		item.Code = string(r.Err.Kind)
		item.Message = r.Err.Message
	}
	return item
}

// Success writes a 200 envelope
func (f *Formatter) Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes the failure envelope for err. Upload errors keep their kind
// and status; anything else is a 500 with a generic message.
func (f *Formatter) Error(c *fiber.Ctx, err error) error {
	return f.ErrorWithData(c, err, nil)
}

// ErrorWithData is Error with a data payload, used when a batch failed as a whole
func (f *Formatter) ErrorWithData(c *fiber.Ctx, err error, data interface{}) error {
	env := Envelope{Success: false, Data: data}
	status := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if ue, ok := domain.AsUploadError(err); ok {
		status = ue.HTTPStatus()
		env.Code = string(ue.Kind)
		env.Message = ue.Message
	} else if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		env.Message = fiberErr.Message
	} else {
		env.Code = "INTERNAL_ERROR"
		env.Message = "upload failed"
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("Error: %v", err)
	}
	if f.exposeErrors && err != nil {
		env.Error = err.Error()
	}
	return c.Status(status).JSON(env)
}
