package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "murer_web"

// Metrics groups the site's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	quotes      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern and status code.",
			},
			[]string{"route", "status"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "service_resolutions_total",
				Help:      "Service page resolutions by outcome.",
			},
			[]string{"state"},
		),
		quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quote_requests_total",
				Help:      "Quote form submissions by outcome.",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.resolutions,
		m.quotes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest counts one served request. route should be a pattern such as
// "/services/{slug}", never a raw path.
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// ObserveResolution counts one service resolution ("resolved" or "not_found").
func (m *Metrics) ObserveResolution(state string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(state).Inc()
}

// ObserveQuote counts one quote submission ("accepted", "invalid", "failed").
func (m *Metrics) ObserveQuote(outcome string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
