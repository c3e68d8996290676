package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"

	"go.hackfix.me/weave/web/server/handler"
)

// Metrics collects request metrics for Prometheus.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics creates the request metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weave",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of processed HTTP requests.",
		}, []string{"verb", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weave",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of processed HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"verb", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weave",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests being processed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed registering metrics: %w", err)
		}
	}

	return m, nil
}

// Middleware returns a Middleware that records the metrics of each request.
// Requests are labeled by their verb, the http.ServeMux pattern that matched
// them, and the response status code.
func (m *Metrics) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			snoop := httpsnoop.CaptureMetrics(next, w, r)

			verb := handler.ParseVerb(r.Method).String()
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(verb, route, strconv.Itoa(snoop.Code)).Inc()
			m.duration.WithLabelValues(verb, route).Observe(snoop.Duration.Seconds())
		})
	}
}
