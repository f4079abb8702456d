package middleware

import (
	"log/slog"
	"net/http"

	"github.com/flashgenius/flashgenius-api/internal/api/shared"
	"github.com/flashgenius/flashgenius-api/internal/platform/logger"
)

// TraceMiddleware generates a trace ID for the request and stores both the ID
// and a trace-scoped logger in the request context. Apply it early in the
// chain so downstream handlers log with the trace ID attached. The ID is also
// echoed in the X-Trace-ID response header so clients can report it.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)
		w.Header().Set("X-Trace-ID", traceID)

		log := logger.FromContextOrDefault(ctx, slog.Default()).
			With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
