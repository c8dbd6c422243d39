package o11y

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Observability struct {
	Logger   *slog.Logger
	Tracer   *trace.TracerProvider
	Registry *prometheus.Registry
}

// Setup wires slog, OpenTelemetry tracing and a Prometheus registry.
// An empty otlpEndpoint leaves the global no-op tracer in place, which is
// what tests and local runs without a collector want.
func Setup(ctx context.Context, otlpEndpoint string) (*Observability, func(), error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	obs := &Observability{
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	cleanup := func() {}

	if otlpEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithInsecure(),
			otlptracehttp.WithEndpoint(otlpEndpoint),
		)
		if err != nil {
			return nil, cleanup, err
		}
		tp := trace.NewTracerProvider(
			trace.WithBatcher(exporter),
			trace.WithSampler(trace.ParentBased(
				trace.TraceIDRatioBased(1),
			)),
		)
		otel.SetTracerProvider(tp)

		obs.Tracer = tp
		cleanup = func() {
			tp.Shutdown(ctx)
		}
	}

	return obs, cleanup, nil
}
