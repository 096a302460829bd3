package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/guild_economy/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guild_economy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guild_economy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guild_economy",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	ledgerCredits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guild_economy",
			Subsystem: "ledger",
			Name:      "grant_credits_total",
			Help:      "Currency minted by daily grants.",
		},
		[]string{"scope_kind"},
	)

	ledgerCompensations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guild_economy",
			Subsystem: "ledger",
			Name:      "compensations_total",
			Help:      "Compensating adjustments applied after a failed second step.",
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, ledgerOperations, ledgerCredits, ledgerCompensations)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation counts a ledger operation, labelling it by the error kind it ended with.
func RecordOperation(operation string, err error) {
	ledgerOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// RecordGrant counts currency minted by a daily grant.
func RecordGrant(scopeKind string, amount int64) {
	ledgerCredits.WithLabelValues(scopeKind).Add(float64(amount))
}

// RecordCompensation counts a compensating adjustment.
func RecordCompensation() {
	ledgerCompensations.Inc()
}

// Outcome maps an error onto a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrCooldownActive):
		return "cooldown"
	case errors.Is(err, apperrors.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, apperrors.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "error"
	}
}
