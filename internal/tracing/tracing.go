package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Configuration struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	ServiceName string `yaml:"service-name"`
}

type Shutdown func(ctx context.Context) error

func noop(_ context.Context) error {
	return nil
}

// Setup installs the global tracer provider. When tracing is disabled the
// global no-op provider is kept.
func Setup(ctx context.Context, logger *slog.Logger, config Configuration) (Shutdown, error) {
	if !config.Enabled {
		return noop, nil
	}
	options := []otlptracehttp.Option{}
	if config.Endpoint != "" {
		options = append(options, otlptracehttp.WithEndpoint(config.Endpoint))
	}
	if config.Insecure {
		options = append(options, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("fail to create the otlp exporter: %w", err)
	}
	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = "slo-dashboard"
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	logger.Info(fmt.Sprintf("tracing enabled for service %s", serviceName))
	return provider.Shutdown, nil
}
