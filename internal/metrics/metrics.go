package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/buxiq/internal/usecase"
)

// Metrics owns a private registry with the dashboard counters.
type Metrics struct {
	registry *prometheus.Registry

	logins        *prometheus.CounterVec
	cashouts      *prometheus.CounterVec
	cashoutPoints prometheus.Counter
	penalties     prometheus.Counter
	penaltyPoints prometheus.Counter
	rlRequests    *prometheus.CounterVec
	rlBlocked     *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buxiq_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"result"}),
		cashouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buxiq_cashout_requests_total",
			Help: "Cashout requests by outcome",
		}, []string{"result"}),
		cashoutPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buxiq_cashout_points_total",
			Help: "Points redeemed through successful cashouts",
		}),
		penalties: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buxiq_click_penalties_total",
			Help: "Daily click penalties applied",
		}),
		penaltyPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buxiq_click_penalty_points_total",
			Help: "Points deducted by daily click penalties",
		}),
		rlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		}, []string{"endpoint"}),
		rlBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		}, []string{"endpoint"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logins,
		m.cashouts,
		m.cashoutPoints,
		m.penalties,
		m.penaltyPoints,
		m.rlRequests,
		m.rlBlocked,
	)
	return m
}

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(result string) {
	m.logins.WithLabelValues(result).Inc()
}

// ObserveCashout counts a cashout request. Points are only added for successes.
func (m *Metrics) ObserveCashout(result string, points int64) {
	m.cashouts.WithLabelValues(result).Inc()
	if result == usecase.CashoutSuccess && points > 0 {
		m.cashoutPoints.Add(float64(points))
	}
}

// ObservePenalty counts an applied daily penalty.
func (m *Metrics) ObservePenalty(points float64) {
	m.penalties.Inc()
	if points > 0 {
		m.penaltyPoints.Add(points)
	}
}

// ObserveRateLimit counts a request seen by the rate limiter.
func (m *Metrics) ObserveRateLimit(endpoint string, blocked bool) {
	if blocked {
		m.rlBlocked.WithLabelValues(endpoint).Inc()
		return
	}
	m.rlRequests.WithLabelValues(endpoint).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
