package spans

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// TracerKey is the context key used to store the OpenTelemetry tracer.
const TracerKey contextKey = "tracer"

// instrumentationName names the fallback tracer taken from the global provider.
const instrumentationName = "github.com/amp-labs/amp-collection"

// WithTracer stores an OpenTelemetry tracer in the context. Spans started with
// Run under this context use it.
//
// Example:
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("my-service"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext retrieves the tracer stored by WithTracer.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	if ctx == nil {
		return nil, false
	}

	tracer, ok := ctx.Value(TracerKey).(trace.Tracer)

	return tracer, ok && tracer != nil
}

// tracerFor returns the context's tracer, or one from the global provider.
// The global provider is a no-op unless the process installs one.
func tracerFor(ctx context.Context) trace.Tracer { //nolint:ireturn
	if tracer, ok := TracerFromContext(ctx); ok {
		return tracer
	}

	return otel.GetTracerProvider().Tracer(instrumentationName)
}
