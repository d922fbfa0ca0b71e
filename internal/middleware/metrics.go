package middleware

import (
	"net/http"

	"murerholbaek.dk/web/internal/metrics"
)

// Metrics counts requests by chi route pattern and status code. Using the
// pattern keeps label cardinality bounded for /services/{slug}.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := NewResponseRecorder(w)
			next.ServeHTTP(rw, r)
			m.ObserveRequest(routePattern(r), rw.Status())
		})
	}
}
