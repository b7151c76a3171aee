package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "estatemedia-uploads"

// UploadMetrics records ingestion outcomes through the global meter provider.
// Instruments created before Initialize forward to the real provider once it
// is installed.
type UploadMetrics struct {
	stored   metric.Int64Counter
	rejected metric.Int64Counter
	bytes    metric.Int64Counter
}

// NewUploadMetrics registers the upload counters
func NewUploadMetrics() *UploadMetrics {
	meter := otel.Meter(meterName)
	m := &UploadMetrics{}

	var err error
	if m.stored, err = meter.Int64Counter("uploads.stored",
		metric.WithDescription("Files persisted to the storage root")); err != nil {
		log.Printf("Warning: failed to create uploads.stored counter: %v", err)
	}
	if m.rejected, err = meter.Int64Counter("uploads.rejected",
		metric.WithDescription("Upload parts that ended in a failure state")); err != nil {
		log.Printf("Warning: failed to create uploads.rejected counter: %v", err)
	}
	if m.bytes, err = meter.Int64Counter("uploads.bytes",
		metric.WithDescription("Bytes written for stored files"),
		metric.WithUnit("By")); err != nil {
		log.Printf("Warning: failed to create uploads.bytes counter: %v", err)
	}
	return m
}

// RecordStored counts one stored file and its size
func (m *UploadMetrics) RecordStored(ctx context.Context, mimeType string, size int64) {
	attrs := metric.WithAttributes(attribute.String("mime_type", mimeType))
	if m.stored != nil {
		m.stored.Add(ctx, 1, attrs)
	}
	if m.bytes != nil {
		m.bytes.Add(ctx, size, attrs)
	}
}

// RecordRejected counts one failed part by reason
func (m *UploadMetrics) RecordRejected(ctx context.Context, reason string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
