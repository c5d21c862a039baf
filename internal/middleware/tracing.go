package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// SpanName renames the server span started by the outer otelhttp handler to a
// fixed low-cardinality name. The rename must happen inside the routed chain:
// the outer handler starts the span before the mux has matched a pattern, so
// only the per-route middleware knows which operation is running.
func SpanName(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace.SpanFromContext(r.Context()).SetName(name)
			next.ServeHTTP(w, r)
		})
	}
}
