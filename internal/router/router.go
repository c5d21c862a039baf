package router

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/taskvault/go/internal/middleware"
	"github.com/taskvault/go/internal/modules/health"
	"github.com/taskvault/go/internal/modules/profiles"
	"github.com/taskvault/go/internal/modules/todos"
)

// Setup creates and configures the HTTP router with all routes. Every route
// handler is registered through the error handler's Wrap so its failures are
// guaranteed to reach the translator, and every /api route sits behind the
// auth middleware. The outer otelhttp handler starts the server span before
// routing, so each chain renames it via SpanName once the pattern is known.
func Setup(
	eh *middleware.ErrorHandler,
	mw *middleware.Manager,
	todosHandler *todos.Handler,
	profilesHandler *profiles.Handler,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize health handler (stateless)
	healthHandler := health.NewHandler()

	// Health and metrics endpoints (unauthenticated)
	mux.Handle("GET /health", middleware.SpanName("health")(http.HandlerFunc(healthHandler.Health)))
	mux.Handle("GET /metrics", healthHandler.Metrics())

	// Todo routes
	mux.Handle("GET /api/todos", middleware.Chain(
		eh.Wrap(todosHandler.List),
		middleware.SpanName("todos.list"),
		mw.Auth,
	))
	mux.Handle("POST /api/todos", middleware.Chain(
		eh.Wrap(todosHandler.Create),
		middleware.SpanName("todos.create"),
		mw.Auth,
		mw.Idempotency,
	))
	mux.Handle("PUT /api/todos/{id}", middleware.Chain(
		eh.Wrap(todosHandler.Update),
		middleware.SpanName("todos.update"),
		mw.Auth,
	))
	mux.Handle("DELETE /api/todos/{id}", middleware.Chain(
		eh.Wrap(todosHandler.Delete),
		middleware.SpanName("todos.delete"),
		mw.Auth,
	))

	// Profile routes
	mux.Handle("GET /api/profile", middleware.Chain(
		eh.Wrap(profilesHandler.Get),
		middleware.SpanName("profiles.get"),
		mw.Auth,
	))
	mux.Handle("PUT /api/profile", middleware.Chain(
		eh.Wrap(profilesHandler.Update),
		middleware.SpanName("profiles.update"),
		mw.Auth,
	))
	mux.Handle("POST /api/profile/avatar", middleware.Chain(
		eh.Wrap(profilesHandler.UploadAvatar),
		middleware.SpanName("profiles.avatar.upload"),
		mw.Auth,
	))
	mux.Handle("GET /api/profile/avatar/{id}", middleware.Chain(
		eh.Wrap(profilesHandler.GetAvatar),
		middleware.SpanName("profiles.avatar.get"),
		mw.Auth,
	))

	// Global middlewares: request id -> metrics -> access logging -> CORS -> routes
	innerHandler := middleware.RequestID(
		middleware.MetricsMiddleware(
			mw.Logging(
				middleware.CORSMiddleware(mux),
			),
		),
	)

	// otelhttp picks up the tracer provider InitTracer registered globally;
	// before initialization it degrades to a no-op tracer.
	return otelhttp.NewHandler(innerHandler, "taskvault")
}
