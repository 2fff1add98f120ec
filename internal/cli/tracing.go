package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/grouperdev/grouper/pkg/version"
)

const otlpEndpointEnv = "GROUPER_OTLP_ENDPOINT"

// setupTracing installs an OTLP gRPC trace exporter when
// $GROUPER_OTLP_ENDPOINT is set. Without it, spans stay on the default
// no-op provider. The returned shutdown function flushes pending spans.
func setupTracing(ctx context.Context) (func(context.Context) error, error) {
	endpoint, ok := os.LookupEnv(otlpEndpointEnv)
	if !ok || endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cmdName),
			semconv.ServiceVersion(version.GetVersion()),
		)),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled", slog.String("endpoint", endpoint))

	return tp.Shutdown, nil
}
