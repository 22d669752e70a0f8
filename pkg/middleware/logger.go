package middleware

import (
	"net/http"
	"time"

	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/reqid"
)

type loggedWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggedWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Logger logs every request with method, path, status, duration and the
// request_id injected by reqid.Middleware (wire reqid first).
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := reqid.FromCtx(r.Context())

		// Per-request logger pre-tagged with request_id; downstream calls
		// to logger.WithCtx(ctx) return this logger.
		reqLog := logger.L.With("request_id", rid)
		r = r.WithContext(logger.Inject(r.Context(), reqLog))

		lw := &loggedWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lw, r)

		reqLog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", lw.statusCode,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
