package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

// Metrics holds the Prometheus collectors of the API
type Metrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec

	recipesCreated prometheus.Counter
	recipesDeleted prometheus.Counter
	memberships    *prometheus.CounterVec
	subscriptions  *prometheus.CounterVec
	loginAttempts  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_requests_total",
				Help: "Total number of requests to the foodgram API",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "foodgram_request_duration_seconds",
				Help:    "Duration of foodgram API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// Summary metric for percentile calculation (p50, p90, p95, p99)
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "foodgram_request_duration_summary",
				Help: "Summary of request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_recipes_created_total",
			Help: "Number of recipes created",
		}),
		recipesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_recipes_deleted_total",
			Help: "Number of recipes deleted",
		}),
		memberships: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_memberships_toggled_total",
				Help: "Favorite and shopping cart changes",
			},
			[]string{"kind", "action"},
		),
		subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_subscriptions_toggled_total",
				Help: "Author subscription changes",
			},
			[]string{"action"},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.requestCounter,
		m.requestLatency,
		m.requestSummary,
		m.recipesCreated,
		m.recipesDeleted,
		m.memberships,
		m.subscriptions,
		m.loginAttempts,
	)
	return m
}

func (m *Metrics) membershipChanged(kind domain.MembershipKind, action string) {
	m.memberships.WithLabelValues(string(kind), action).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (m *Metrics) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		m.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}
