package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"murerholbaek.dk/web/internal/observability"
)

// Logger emits one structured log line per request and makes a request-scoped
// logger available through observability.FromContext.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := chiMid.GetReqID(r.Context())
			ctx := r.Context()
			reqLogger := logger
			if rid != "" {
				ctx = WithRequestID(ctx, rid)
				reqLogger = logger.With(zap.String("request_id", rid))
			}
			ctx = observability.WithLogger(ctx, reqLogger)
			r = r.WithContext(ctx)

			rw := NewResponseRecorder(w)
			next.ServeHTTP(rw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", routePattern(r)),
				zap.Int("status", rw.Status()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("remote_ip", clientIP(r)),
				zap.Bool("htmx", IsHTMX(r.Context())),
			}
			switch {
			case rw.Status() >= 500:
				reqLogger.Error("request", fields...)
			case rw.Status() >= 400:
				reqLogger.Warn("request", fields...)
			default:
				reqLogger.Info("request", fields...)
			}
		})
	}
}

// routePattern returns the matched chi pattern, e.g. "/services/{slug}".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func clientIP(r *http.Request) string {
	// chi RealIP already rewrote RemoteAddr when a proxy header was present
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
