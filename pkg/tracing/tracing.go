// pkg/tracing/tracing.go
package tracing

import (
	"context"
	"fmt"
	"strings"

	"github.com/joeydtaylor/steeze-factory/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

// Init installs an OTLP/HTTP tracer provider as the global one. With no
// endpoint configured it installs nothing and returns a no-op Shutdown.
func Init(ctx context.Context, cfg config.Config) (Shutdown, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	if cfg.Tracing.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(clientOptions(cfg.Tracing)...))
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRate))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.Service),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// clientOptions accepts either a full URL (http://collector:4318) or a bare
// host:port endpoint.
func clientOptions(t config.Tracing) []otlptracehttp.Option {
	if strings.Contains(t.Endpoint, "://") {
		return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(t.Endpoint)}
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(t.Endpoint)}
	if t.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}
