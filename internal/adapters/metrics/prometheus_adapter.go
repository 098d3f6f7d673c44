package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_auth_failures_total",
			Help: "Number of failed authentication attempts by reason.",
		},
		[]string{"reason"},
	)

	cacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_cache_operations_total",
			Help: "Cache operations by operation and result (hit, miss, error).",
		},
		[]string{"op", "result"},
	)

	aggregateRecomputesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_aggregate_recomputes_total",
			Help: "Dashboard aggregate recomputations by kind.",
		},
		[]string{"kind"},
	)

	authzDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_authorization_denials_total",
			Help: "Authorization denials by reason.",
		},
		[]string{"reason"},
	)
)

// IncAuthFailure records a failed authentication attempt.
func IncAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}

// IncCacheOp records one cache operation outcome.
func IncCacheOp(op, result string) {
	cacheOpsTotal.WithLabelValues(op, result).Inc()
}

// IncAggregateRecompute records a dashboard aggregate recomputation.
func IncAggregateRecompute(kind string) {
	aggregateRecomputesTotal.WithLabelValues(kind).Inc()
}

// IncAuthzDenial records an authorization denial.
func IncAuthzDenial(reason string) {
	authzDenialsTotal.WithLabelValues(reason).Inc()
}
