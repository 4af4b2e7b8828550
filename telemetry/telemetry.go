// Package telemetry installs an OpenTelemetry tracer provider that exports
// spans over OTLP/HTTP.
//
// Nothing in this module calls it. A host program calls Initialize once at
// startup to export the "sequence.flush" spans: Initialize installs the
// provider globally, and sequences without a tracer in their context trace
// through the global provider. Call Provider.Shutdown before exiting so that
// buffered spans are sent.
//
//	cfg, err := telemetry.LoadConfig(ctx, "production")
//	...
//	provider, err := telemetry.Initialize(ctx, cfg)
//	...
//	defer provider.Shutdown(context.Background())
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/amp-collection/config"
	"github.com/amp-labs/amp-collection/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

// Configuration keys.
const (
	KeyEnabled        = "OTEL_ENABLED"
	KeyServiceName    = "OTEL_SERVICE_NAME"
	KeyServiceVersion = "OTEL_SERVICE_VERSION"
	KeyEndpoint       = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	KeyTimeout        = "OTEL_EXPORTER_OTLP_TRACES_TIMEOUT"
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfig reads the configuration. The service name defaults to the
// logging subsystem.
func LoadConfig(ctx context.Context, environment string) (*Config, error) {
	enabled, err := config.Bool(ctx, KeyEnabled, config.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	svcName, err := config.String(ctx, KeyServiceName, config.Default(logger.GetSubsystem(ctx))).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := config.String(ctx, KeyServiceVersion, config.Default(defaultServiceVersion)).Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := config.String(ctx, KeyEndpoint, config.Default("")).Value()
	if err != nil {
		return nil, err
	}

	timeout, err := config.Duration(ctx, KeyTimeout, config.Default(defaultTimeout)).Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    environment,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

// Provider is an installed tracer provider.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// Tracer returns a named tracer. A nil Provider yields a no-op tracer.
func (p *Provider) Tracer(name string) trace.Tracer { //nolint:ireturn
	if p == nil || p.provider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}

	return p.provider.Tracer(name)
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}

	logger.Get(ctx).Info("shutting down OpenTelemetry tracer provider")

	return p.provider.Shutdown(ctx)
}

// Initialize sets up tracing and installs it as the global provider. When
// tracing is disabled or no endpoint is configured it returns a nil Provider,
// which is safe to use.
func Initialize(ctx context.Context, cfg *Config) (*Provider, error) {
	log := logger.Get(ctx)

	if cfg == nil || !cfg.Enabled {
		log.Info("OpenTelemetry tracing is disabled")

		return nil, nil //nolint:nilnil
	}

	if cfg.Endpoint == "" {
		log.Warn("OpenTelemetry endpoint not configured, tracing will be disabled")

		return nil, nil //nolint:nilnil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("OpenTelemetry tracing initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"environment", cfg.Environment,
		"endpoint", cfg.Endpoint,
	)

	return &Provider{provider: provider}, nil
}
