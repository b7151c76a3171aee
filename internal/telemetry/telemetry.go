package telemetry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config describes where upload spans and counters are exported
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	InstanceID     string
	Token          string
	Enabled        bool
}

// Headers builds the OTLP basic-auth header from instance ID and token.
// Collectors without auth get no headers.
func (c Config) Headers() map[string]string {
	if c.InstanceID == "" || c.Token == "" {
		return nil
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.InstanceID + ":" + c.Token))
	return map[string]string{"Authorization": "Basic " + creds}
}

// Provider owns the exporters installed by Initialize
type Provider struct {
	shutdowns []func(context.Context) error
}

// Initialize installs global tracer and meter providers exporting over
// OTLP/HTTP. Disabled telemetry returns a nil Provider and leaves the
// global no-op providers in place.
func Initialize(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		log.Println("📊 OpenTelemetry disabled")
		return nil, nil
	}

	res := resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)
	headers := cfg.Headers()
	p := &Provider{}

	spans, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := trace.NewTracerProvider(trace.WithBatcher(spans), trace.WithResource(res))
	p.shutdowns = append(p.shutdowns, tp.Shutdown)

	counters, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetrichttp.WithHeaders(headers),
	)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(counters, metric.WithInterval(30*time.Second))),
		metric.WithResource(res),
	)
	p.shutdowns = append(p.shutdowns, mp.Shutdown)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Printf("✓ OpenTelemetry exporting %s to %s", cfg.ServiceName, cfg.OTLPEndpoint)
	return p, nil
}

// Shutdown flushes pending spans and counters. Safe on a nil Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, shutdown := range p.shutdowns {
		errs = append(errs, shutdown(ctx))
	}
	return errors.Join(errs...)
}
