// Package metrics holds the exporter's Prometheus time series. All series
// live in a Store with its own registry rather than the package-global
// default registry, so ingestion, the refresher, and the scrape handler
// share one explicitly owned object.
//
// Per-user and global variants of the rate-limit and timeout counters are
// maintained independently and updated in lockstep; the global series are
// never derived by summing the per-user ones at query time.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giygas/nginx-stats-exporter/logparser"
)

// Store owns every metric the exporter maintains. Label tuples are created
// lazily on first touch and are never removed; cardinality only grows with
// the set of distinct tuples observed.
type Store struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	bytesTotal          *prometheus.CounterVec
	rateLimitHits       *prometheus.CounterVec
	rateLimitHitsGlobal *prometheus.CounterVec
	timeoutEvents       *prometheus.CounterVec
	timeoutEventsGlobal *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec

	lastRequestTime   *prometheus.GaugeVec
	activeConnections *prometheus.GaugeVec
	requestsPerSecond *prometheus.GaugeVec
}

// NewStore creates a Store with all series registered on a fresh registry,
// alongside the standard Go runtime and process collectors.
func NewStore() *Store {
	s := &Store{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_user_requests_total",
				Help: "Total number of requests per user",
			},
			[]string{"user_ip", "status", "method", "route"},
		),

		bytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_user_bytes_total",
				Help: "Total bytes transferred per user",
			},
			[]string{"user_ip", "direction"},
		),

		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_rate_limit_hits_total",
				Help: "Total number of rate limit hits (429 status codes) per user",
			},
			[]string{"user_ip", "route", "http_method"},
		),

		rateLimitHitsGlobal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_rate_limit_hits_global_total",
				Help: "Total number of rate limit hits (429 status codes) - global aggregated",
			},
			[]string{"route", "http_method"},
		),

		timeoutEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_timeout_events_total",
				Help: "Total number of timeout events (504, 408, or response time > 600s) per user",
			},
			[]string{"user_ip", "route", "timeout_type", "http_method"},
		),

		timeoutEventsGlobal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nginx_timeout_events_global_total",
				Help: "Total number of timeout events (504, 408, or response time > 600s) - global aggregated",
			},
			[]string{"route", "timeout_type", "http_method"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nginx_user_request_duration_seconds",
				Help:    "Request duration per user",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"user_ip", "route"},
		),

		lastRequestTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nginx_user_last_request_time",
				Help: "Unix timestamp of last request per user",
			},
			[]string{"user_ip"},
		),

		activeConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nginx_user_active_connections",
				Help: "Number of active connections per user",
			},
			[]string{"user_ip"},
		),

		requestsPerSecond: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nginx_user_requests_per_second",
				Help: "Requests per second per user",
			},
			[]string{"user_ip"},
		),
	}

	s.registry.MustRegister(
		s.requestsTotal,
		s.bytesTotal,
		s.rateLimitHits,
		s.rateLimitHitsGlobal,
		s.timeoutEvents,
		s.timeoutEventsGlobal,
		s.requestDuration,
		s.lastRequestTime,
		s.activeConnections,
		s.requestsPerSecond,
	)

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return s
}

// Apply records one accepted request. The per-user and global counters for
// rate limits and timeouts are incremented together so they stay in
// lockstep for the same (route, method).
func (s *Store) Apply(e *logparser.Entry, ev logparser.Event, now time.Time) {
	if e.BytesSent < 0 {
		// The parser guarantees non-negative bytes; a negative value here
		// is a bug upstream, not something to clamp.
		panic(fmt.Sprintf("metrics: negative bytes_sent %d for %s", e.BytesSent, e.ClientAddr))
	}

	s.requestsTotal.WithLabelValues(e.ClientAddr, e.Status, e.Method, e.Route).Inc()
	s.bytesTotal.WithLabelValues(e.ClientAddr, "sent").Add(float64(e.BytesSent))

	if ev.RateLimited {
		s.rateLimitHits.WithLabelValues(e.ClientAddr, e.Route, e.Method).Inc()
		s.rateLimitHitsGlobal.WithLabelValues(e.Route, e.Method).Inc()
	}

	if ev.Timeout != logparser.TimeoutNone {
		kind := ev.Timeout.String()
		s.timeoutEvents.WithLabelValues(e.ClientAddr, e.Route, kind, e.Method).Inc()
		s.timeoutEventsGlobal.WithLabelValues(e.Route, kind, e.Method).Inc()
	}

	if e.RequestTime != nil {
		s.requestDuration.WithLabelValues(e.ClientAddr, e.Route).Observe(*e.RequestTime)
	}

	s.lastRequestTime.WithLabelValues(e.ClientAddr).Set(float64(now.Unix()))
}

// SetActiveConnections sets the active-connection estimate for a user.
// Only the periodic refresher calls this.
func (s *Store) SetActiveConnections(userIP string, value float64) {
	s.activeConnections.WithLabelValues(userIP).Set(value)
}

// SetRequestsPerSecond sets the request-rate estimate for a user.
// Only the periodic refresher calls this.
func (s *Store) SetRequestsPerSecond(userIP string, value float64) {
	s.requestsPerSecond.WithLabelValues(userIP).Set(value)
}

// Registry returns the underlying Prometheus registry.
func (s *Store) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the scrape handler rendering the current snapshot.
func (s *Store) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
