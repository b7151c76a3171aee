package service

import (
	"context"
	"fmt"
	"io"

	"github.com/mansoorceksport/estatemedia/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// UploadRecorder receives the terminal outcome of every part
type UploadRecorder interface {
	RecordStored(ctx context.Context, mimeType string, size int64)
	RecordRejected(ctx context.Context, reason string)
}

// UploadService runs each part through validation, naming and the file store
type UploadService struct {
	filter      *ValidationFilter
	namer       *StorageNamer
	store       domain.FileStore
	recorder    UploadRecorder
	concurrency int
}

// NewUploadService creates a new upload service. recorder may be nil.
func NewUploadService(
	filter *ValidationFilter,
	namer *StorageNamer,
	store domain.FileStore,
	recorder UploadRecorder,
	concurrency int,
) *UploadService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UploadService{
		filter:      filter,
		namer:       namer,
		store:       store,
		recorder:    recorder,
		concurrency: concurrency,
	}
}

// UploadSingle handles the single-image endpoint. Exactly one part is required;
// the part's own failure is returned in the result, while request-level
// problems (no part, too many) come back as the error.
func (s *UploadService) UploadSingle(ctx context.Context, parts []domain.UploadPart) (domain.UploadResult, error) {
	switch {
	case len(parts) == 0:
		return domain.UploadResult{}, domain.NewNoFileProvided()
	case len(parts) > 1:
		return domain.UploadResult{}, domain.NewBatchCountExceeded(len(parts), 1)
	}
	return s.process(ctx, 0, parts[0]), nil
}

// UploadBatch handles the multi-image endpoint. More than MaxBatchFiles parts
// rejects the whole request before anything is stored. Parts run
// concurrently; results keep submission order and one part failing does not
// stop its siblings.
func (s *UploadService) UploadBatch(ctx context.Context, parts []domain.UploadPart) (*domain.BatchUploadResponse, error) {
	if len(parts) == 0 {
		return nil, domain.NewNoFileProvided()
	}
	if len(parts) > domain.MaxBatchFiles {
		return nil, domain.NewBatchCountExceeded(len(parts), domain.MaxBatchFiles)
	}

	results := make([]domain.UploadResult, len(parts))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, part := range parts {
		g.Go(func() error {
			// Each goroutine owns results[i]; failures are per-part, never returned
			results[i] = s.process(gCtx, i, part)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch upload: %w", err)
	}

	resp := &domain.BatchUploadResponse{Results: results}
	for _, r := range results {
		if r.Succeeded() {
			resp.Count++
		}
	}
	return resp, nil
}

// process moves one part from Received to a terminal state
func (s *UploadService) process(ctx context.Context, index int, part domain.UploadPart) domain.UploadResult {
	ctx, span := otel.Tracer("upload").Start(ctx, "upload.part",
		trace.WithAttributes(
			attribute.Int("upload.index", index),
			attribute.String("upload.declared_mime", part.DeclaredMimeType),
			attribute.Int64("upload.declared_size", part.DeclaredSize),
		),
	)
	defer span.End()

	result := domain.UploadResult{
		Index:        index,
		OriginalName: part.OriginalName,
		State:        domain.StateReceived,
	}
	fail := func(state domain.PartState, err *domain.UploadError) domain.UploadResult {
		result.State = state
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, string(err.Kind))
		if s.recorder != nil {
			s.recorder.RecordRejected(ctx, string(err.Kind))
		}
		return result
	}

	result.State = domain.StateValidating
	if err := s.filter.Validate(part); err != nil {
		return fail(domain.StateRejected, err)
	}
	result.State = domain.StateAccepted

	storedName, err := s.namer.Name(part.OriginalName)
	if err != nil {
		return fail(domain.StateWriteFailed, domain.NewWriteFailure(err))
	}

	result.State = domain.StateWriting
	stored, err := s.write(ctx, storedName, part)
	if err != nil {
		ue, ok := domain.AsUploadError(err)
		if !ok {
			ue = domain.NewWriteFailure(err)
		}
		// An oversized stream is a rejection, not a storage fault
		if ue.Kind == domain.KindSizeExceeded {
			return fail(domain.StateRejected, ue)
		}
		return fail(domain.StateWriteFailed, ue)
	}

	stored.MimeType = domain.NormalizeMimeType(part.DeclaredMimeType)
	result.State = domain.StateStored
	result.File = stored

	span.SetAttributes(
		attribute.String("upload.stored_name", stored.StoredName),
		attribute.Int64("upload.size", stored.SizeBytes),
	)
	if s.recorder != nil {
		s.recorder.RecordStored(ctx, stored.MimeType, stored.SizeBytes)
	}
	return result
}

func (s *UploadService) write(ctx context.Context, storedName string, part domain.UploadPart) (*domain.StoredFile, error) {
	if part.Open == nil {
		return nil, fmt.Errorf("part %q has no content", part.OriginalName)
	}
	src, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded part: %w", err)
	}
	defer func(c io.Closer) { _ = c.Close() }(src)

	return s.store.Save(ctx, storedName, src, s.filter.MaxSize())
}
