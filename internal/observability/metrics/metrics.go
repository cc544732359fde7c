package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentledger_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentledger_report_duration_seconds",
		Help:    "Duration of report generation by report kind and data source",
		Buckets: prometheus.DefBuckets,
	}, []string{"report", "source"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_mutations_total",
		Help: "Count of entity mutations by entity, action and result",
	}, []string{"entity", "action", "result"})

	authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_auth_attempts_total",
		Help: "Count of signup and login attempts by result",
	}, []string{"action", "result"})

	accessDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentledger_access_denied_total",
		Help: "Count of requests refused by the access gate, by surface",
	}, []string{"surface"})

	unpaidLeases = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentledger_unpaid_leases",
		Help: "Leases with no payment recorded in the current month",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveReport records the duration of one report generation. Source
// is "cache" or "store".
func ObserveReport(report, source string, duration time.Duration) {
	reportDuration.WithLabelValues(report, source).Observe(duration.Seconds())
}

// ObserveMutation increments the mutation counter.
func ObserveMutation(entity, action, result string) {
	mutationsTotal.WithLabelValues(entity, action, result).Inc()
}

// ObserveAuthAttempt increments the auth attempt counter.
func ObserveAuthAttempt(action, result string) {
	authAttemptsTotal.WithLabelValues(action, result).Inc()
}

// ObserveAccessDenied increments the denial counter for a surface.
func ObserveAccessDenied(surface string) {
	accessDeniedTotal.WithLabelValues(surface).Inc()
}

// SetUnpaidLeases sets the unpaid lease gauge.
func SetUnpaidLeases(count int) {
	if count < 0 {
		count = 0
	}
	unpaidLeases.Set(float64(count))
}
