package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mansoorceksport/estatemedia/internal/domain"
)

const partialPattern = ".upload-*.part"

// LocalDiskRepository implements domain.FileStore on the local filesystem
type LocalDiskRepository struct {
	root string

	rootOnce sync.Once
	rootErr  error
}

// NewLocalDiskRepository creates a repository rooted at dir. The directory is
// created lazily by EnsureRoot.
func NewLocalDiskRepository(dir string) (*LocalDiskRepository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir %q: %w", dir, err)
	}
	return &LocalDiskRepository{root: abs}, nil
}

// Root returns the absolute storage root
func (r *LocalDiskRepository) Root() string {
	return r.root
}

// EnsureRoot creates the storage root once per process. MkdirAll is itself
// idempotent so concurrent first calls cannot race each other.
func (r *LocalDiskRepository) EnsureRoot() error {
	r.rootOnce.Do(func() {
		if err := os.MkdirAll(r.root, 0o755); err != nil {
			r.rootErr = fmt.Errorf("failed to create upload dir %s: %w", r.root, err)
		}
	})
	return r.rootErr
}

// Save streams r into a temp file under the root and renames it to
// storedName once the whole stream is on disk. Any failure removes the temp
// file, so a reader never sees a partial file under the final name.
func (r *LocalDiskRepository) Save(ctx context.Context, storedName string, src io.Reader, limit int64) (*domain.StoredFile, error) {
	finalPath, err := r.resolve(storedName)
	if err != nil {
		return nil, domain.NewWriteFailure(err)
	}
	if err := r.EnsureRoot(); err != nil {
		return nil, domain.NewWriteFailure(err)
	}

	tmp, err := os.CreateTemp(r.root, partialPattern)
	if err != nil {
		return nil, domain.NewWriteFailure(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	// One byte past the limit tells an exact-size stream apart from an oversized one
	written, err := io.Copy(tmp, io.LimitReader(&contextReader{ctx: ctx, r: src}, limit+1))
	if err != nil {
		return nil, domain.NewWriteFailure(fmt.Errorf("failed to write %s: %w", storedName, err))
	}
	if written > limit {
		return nil, domain.NewSizeExceeded(limit)
	}

	if err := tmp.Sync(); err != nil {
		return nil, domain.NewWriteFailure(fmt.Errorf("failed to sync %s: %w", storedName, err))
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.NewWriteFailure(fmt.Errorf("failed to close %s: %w", storedName, err))
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		committed = true
		return nil, domain.NewWriteFailure(fmt.Errorf("failed to commit %s: %w", storedName, err))
	}
	committed = true

	return &domain.StoredFile{
		StoredName:  storedName,
		StoragePath: finalPath,
		SizeBytes:   written,
	}, nil
}

// Stat returns the size of a stored file
func (r *LocalDiskRepository) Stat(storedName string) (int64, error) {
	path, err := r.resolve(storedName)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

// SweepPartials deletes temp files older than maxAge. Fresh ones may belong
// to writes still in flight and are left alone.
func (r *LocalDiskRepository) SweepPartials(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(r.root, partialPattern))
	if err != nil {
		return 0, fmt.Errorf("failed to list partial uploads: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(m); err == nil {
			removed++
		}
	}
	return removed, nil
}

// resolve joins storedName onto the root and refuses anything that would
// land outside it.
func (r *LocalDiskRepository) resolve(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || strings.HasPrefix(storedName, ".") {
		return "", fmt.Errorf("invalid stored name %q", storedName)
	}
	path := filepath.Join(r.root, storedName)
	if !strings.HasPrefix(path, r.root+string(filepath.Separator)) {
		return "", fmt.Errorf("stored name %q escapes upload dir", storedName)
	}
	return path, nil
}

// contextReader fails the copy once the request context is done, which is
// how a client disconnect surfaces mid-stream.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
