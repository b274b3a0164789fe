package otel

import (
	"context"
	"log/slog"
	"os"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

const instrumentationName = "github.com/adrianliechti/imagine"

var (
	EnableDebug     = false
	EnableTelemetry = false
)

func init() {
	EnableDebug = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""
}

type Observable interface {
	otelSetup()
}

// Setup configures the default logger and, with TELEMETRY set, the OTLP log,
// metric and trace pipelines. The returned func flushes and stops them.
func Setup(ctx context.Context, serviceName, serviceVersion string) (func(context.Context) error, error) {
	// .env may have been loaded after init
	EnableDebug = EnableDebug || os.Getenv("DEBUG") != ""
	EnableTelemetry = EnableTelemetry || os.Getenv("TELEMETRY") != ""

	level := slog.LevelInfo

	if EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	noop := func(context.Context) error { return nil }

	if !EnableTelemetry {
		return noop, nil
	}

	resource, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)

	if err != nil {
		return noop, err
	}

	var funcs []shutdownFunc

	for _, setup := range []func(context.Context, *sdkresource.Resource) (shutdownFunc, error){
		setupTracer,
		setupMeter,
		setupLogger,
	} {
		shutdown, err := setup(ctx, resource)

		if err != nil {
			shutdownAll(funcs)(ctx)
			return noop, err
		}

		funcs = append(funcs, shutdown)
	}

	return shutdownAll(funcs), nil
}
