package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("sportdata-hub/internal/interfaces/httpapi")

// startSpan opens a child span for handler work. Requests the tracing
// middleware filtered out, and helpers below the handler, get the parent
// span back so they add nothing.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan{parent}
	}

	var opts []trace.SpanStartOption
	if sp := sportFromContext(ctx); sp != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("sport", sp.String())))
	}
	return apiTracer.Start(ctx, name, opts...)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// noopSpan hands back the parent without letting End close it.
type noopSpan struct {
	trace.Span
}

func (noopSpan) End(...trace.SpanEndOption) {}
