// Package metrics exposes Prometheus metrics for the storefront API.
// All methods are safe to call on a nil *Manager.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	LoginSuccess     = "success"
	LoginFailed      = "failed"
	LoginRateLimited = "rate_limited"
)

// Search kinds
const (
	SearchTerms = "terms"
	SearchItems = "items"
)

// Notification delivery paths
const (
	DeliveryRemote = "remote"
	DeliveryLocal  = "local"
)

// Manager owns a registry and the application's collectors
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginAttempts *prometheus.CounterVec
	searchQueries *prometheus.CounterVec
	notifications *prometheus.CounterVec
	queueSize     prometheus.Gauge
	sweepRemoved  prometheus.Counter
}

// NewManager creates a manager with its own registry, including the Go and
// process collectors
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "storefront",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.loginAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome",
	}, []string{"result"})

	m.searchQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "search_queries_total",
		Help:      "Catalog searches by kind",
	}, []string{"kind"})

	m.notifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notifications_sent_total",
		Help:      "Notifications sent by delivery path",
	}, []string{"delivery"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "notification_queue_size",
		Help:      "Notifications held in the local queue",
	})

	m.sweepRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notifications_expired_total",
		Help:      "Notifications removed by the expiry sweep",
	})
}

// Registry returns the underlying registry
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Manager) IncLoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

func (m *Manager) IncSearch(kind string) {
	if m == nil {
		return
	}
	m.searchQueries.WithLabelValues(kind).Inc()
}

func (m *Manager) IncNotification(delivery string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(delivery).Inc()
}

func (m *Manager) SetNotificationQueueSize(n int) {
	if m == nil {
		return
	}
	m.queueSize.Set(float64(n))
}

func (m *Manager) AddExpiredNotifications(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweepRemoved.Add(float64(n))
}
