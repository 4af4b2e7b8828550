// Package spans wraps work in OpenTelemetry spans.
package spans

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run calls fn inside a span named name. The span status is set from the
// returned error. A panic in fn is recorded on the span and then re-raised.
//
// Example:
//
//	err := spans.Run(ctx, "flush", func(ctx context.Context, span trace.Span) error {
//	    return deliver(ctx)
//	}, attribute.Int("changes", n))
func Run(
	ctx context.Context,
	name string,
	fn func(ctx context.Context, span trace.Span) error,
	attrs ...attribute.KeyValue,
) (errOut error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := tracerFor(ctx).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))

	defer span.End()

	defer func() {
		if panicErr := recover(); panicErr != nil {
			span.SetAttributes(attribute.Bool("panic", true))
			span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", panicErr))

			panic(panicErr)
		}
	}()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	span.SetStatus(codes.Ok, "ok")

	return nil
}
