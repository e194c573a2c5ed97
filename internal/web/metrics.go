package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// Metrics holds the collectors for quiz activity on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	actions  *prometheus.CounterVec
	attempts *prometheus.CounterVec
	scores   *prometheus.HistogramVec
	requests *prometheus.HistogramVec
}

// NewMetrics registers the collectors. activeSessions, if set, is sampled
// on every scrape.
func NewMetrics(activeSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "protoquiz",
			Name:      "actions_total",
			Help:      "Quiz actions by bank, action and outcome.",
		}, []string{"bank", "action", "outcome"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "protoquiz",
			Name:      "attempts_completed_total",
			Help:      "Submitted attempts by bank and tier.",
		}, []string{"bank", "tier"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "protoquiz",
			Name:      "score_percentage",
			Help:      "Percentage score of submitted attempts.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"bank"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "protoquiz",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(m.actions, m.attempts, m.scores, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if activeSessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "protoquiz",
			Name:      "active_sessions",
			Help:      "Quiz sessions currently held in memory.",
		}, activeSessions))
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAction counts one engine action. outcome is "ok" or the error
// code it was rejected with.
func (m *Metrics) ObserveAction(bankID string, kind quiz.ActionKind, outcome string) {
	m.actions.WithLabelValues(bankID, string(kind), outcome).Inc()
}

// ObserveAttempt records a submitted result.
func (m *Metrics) ObserveAttempt(res quiz.Result) {
	m.attempts.WithLabelValues(res.BankID, res.Tier.String()).Inc()
	m.scores.WithLabelValues(res.BankID).Observe(float64(res.Percentage))
}

// Instrument times requests by their chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
