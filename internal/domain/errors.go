package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	ErrNotFound  = errors.New("record not found")
	ErrCacheMiss = errors.New("cache miss")
)

// UploadErrorKind classifies why an upload part failed
type UploadErrorKind string

const (
	KindNoFileProvided     UploadErrorKind = "NO_FILE_PROVIDED"
	KindInvalidFileType    UploadErrorKind = "INVALID_FILE_TYPE"
	KindSizeExceeded       UploadErrorKind = "SIZE_EXCEEDED"
	KindBatchCountExceeded UploadErrorKind = "BATCH_COUNT_EXCEEDED"
	KindWriteFailure       UploadErrorKind = "WRITE_FAILURE"
)

// UploadError carries the failure kind, a client-facing message and the
// underlying cause, if any.
type UploadError struct {
	Kind    UploadErrorKind
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ClientCaused reports whether the caller can fix the request and resubmit
func (e *UploadError) ClientCaused() bool {
	return e.Kind != KindWriteFailure
}

// HTTPStatus maps the kind to the status code returned to the caller
func (e *UploadError) HTTPStatus() int {
	if e.ClientCaused() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func NewNoFileProvided() *UploadError {
	return &UploadError{Kind: KindNoFileProvided, Message: "no file uploaded"}
}

func NewInvalidFileType(name, mimeType string) *UploadError {
	return &UploadError{
		Kind:    KindInvalidFileType,
		Message: "only images are allowed (" + AllowedExtensionList() + ")",
		Err:     fmt.Errorf("rejected %q with content type %q", name, mimeType),
	}
}

func NewSizeExceeded(limit int64) *UploadError {
	return &UploadError{
		Kind:    KindSizeExceeded,
		Message: fmt.Sprintf("file exceeds the maximum size of %d bytes", limit),
	}
}

// NewRequestTooLarge rejects a whole request by its length, before any part is parsed
func NewRequestTooLarge(limit int64) *UploadError {
	return &UploadError{
		Kind:    KindSizeExceeded,
		Message: fmt.Sprintf("request body exceeds the upload limit of %d bytes", limit),
	}
}

func NewBatchCountExceeded(got, max int) *UploadError {
	return &UploadError{
		Kind:    KindBatchCountExceeded,
		Message: fmt.Sprintf("too many files: got %d, at most %d allowed", got, max),
	}
}

func NewWriteFailure(err error) *UploadError {
	return &UploadError{Kind: KindWriteFailure, Message: "upload failed", Err: err}
}

// AsUploadError unwraps err into an *UploadError when it carries one
func AsUploadError(err error) (*UploadError, bool) {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
