package server

import (
	"context"
	"net/http"

	"github.com/fzzzy/mumulib/pkg/document"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// The tracer uses the global provider; spans are no-ops until one is set.
var tracer = otel.Tracer("github.com/fzzzy/mumulib/pkg/server")

// traceRequests wraps each request in a server span named after its route.
func traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
			span.SetName("HTTP " + r.Method + " " + rctx.RoutePattern())
			span.SetAttributes(attribute.String("http.route", rctx.RoutePattern()))
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// dispatchTraced dispatches ev inside a span. Call it on the task queue.
func dispatchTraced(ctx context.Context, doc *document.Document, ev *document.Event) error {
	_, span := tracer.Start(ctx, "mumu.event",
		trace.WithAttributes(
			attribute.String("event.type", ev.Type),
			attribute.String("event.hid", ev.HID),
		))
	defer span.End()

	err := doc.Dispatch(ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
