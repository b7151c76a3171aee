package domain

import (
	"context"
	"io"
	"time"
)

// FileStore persists validated upload streams under a storage root
type FileStore interface {
	// EnsureRoot creates the storage root if absent. Safe to call repeatedly.
	EnsureRoot() error
	// Save streams r to storedName, reading at most limit bytes. It returns
	// the bytes written; a stream longer than limit fails with KindSizeExceeded
	// and leaves nothing behind.
	Save(ctx context.Context, storedName string, r io.Reader, limit int64) (*StoredFile, error)
	// Stat reports the size of a stored file
	Stat(storedName string) (int64, error)
	// SweepPartials removes temp files older than maxAge left by interrupted writes
	SweepPartials(maxAge time.Duration) (int, error)
}

// ResponseCache stores rendered responses for idempotent replay
type ResponseCache interface {
	GetResponse(ctx context.Context, key string) ([]byte, error)
	SetResponse(ctx context.Context, key string, body []byte, ttl time.Duration) error
}
