package domain

import (
	"context"
	"io"
)

// Multipart field names accepted by the upload endpoints
const (
	SingleFileField = "image"
	BatchFileField  = "images"
)

// MaxBatchFiles is the most parts a single batch request may carry
const MaxBatchFiles = 10

// PartState tracks one UploadPart through the ingestion pipeline
type PartState string

const (
	StateReceived    PartState = "received"
	StateValidating  PartState = "validating"
	StateRejected    PartState = "rejected"
	StateAccepted    PartState = "accepted"
	StateWriting     PartState = "writing"
	StateStored      PartState = "stored"
	StateWriteFailed PartState = "write_failed"
)

// Terminal reports whether no further transition can happen from s
func (s PartState) Terminal() bool {
	return s == StateRejected || s == StateStored || s == StateWriteFailed
}

// UploadPart is one file field of an incoming multipart request.
// OriginalName and DeclaredMimeType come from the client and are untrusted.
// DeclaredSize is what the transport reported; -1 when unknown.
type UploadPart struct {
	OriginalName     string
	DeclaredMimeType string
	DeclaredSize     int64
	Open             func() (io.ReadCloser, error)
}

// StoredFile is the durable result of accepting one UploadPart
type StoredFile struct {
	StoredName  string `json:"filename"`
	StoragePath string `json:"-"`
	SizeBytes   int64  `json:"size"`
	MimeType    string `json:"mimetype"`
}

// UploadResult is the outcome for a single part: File on success, Err otherwise
type UploadResult struct {
	Index        int
	OriginalName string
	State        PartState
	File         *StoredFile
	Err          *UploadError
}

// Succeeded reports whether the part ended in StateStored
func (r UploadResult) Succeeded() bool {
	return r.File != nil && r.Err == nil
}

// BatchUploadResponse keeps one result per submitted part, in submission order
type BatchUploadResponse struct {
	Results []UploadResult
	Count   int
}

// FirstError returns the error of the first failed part, or nil
func (b *BatchUploadResponse) FirstError() *UploadError {
	for _, r := range b.Results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// UploadService orchestrates validation, naming and persistence of uploads
type UploadService interface {
	UploadSingle(ctx context.Context, parts []UploadPart) (UploadResult, error)
	UploadBatch(ctx context.Context, parts []UploadPart) (*BatchUploadResponse, error)
}
