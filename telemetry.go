package uecomplete

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// tracerName is the OTel instrumentation scope for the resolver.
const tracerName = "github.com/jward/uecomplete"

// Outcome labels for completionRequests.
const (
	outcomeItems = "items"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// Package-level metrics, registered with the default registry via promauto.
var (
	// completionRequests counts requests by outcome: items, empty or error.
	completionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uecomplete",
			Subsystem: "completion",
			Name:      "requests_total",
			Help:      "Completion requests by outcome.",
		},
		[]string{"outcome"},
	)

	// completionContexts counts which classifier case handled a request.
	completionContexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uecomplete",
			Subsystem: "completion",
			Name:      "context_total",
			Help:      "Completion requests by cursor context case.",
		},
		[]string{"case"},
	)

	completionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "uecomplete",
			Subsystem: "completion",
			Name:      "duration_seconds",
			Help:      "Time to resolve one completion request.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)
)

func outcomeFor(items []CompletionItem, err error) string {
	switch {
	case err != nil:
		return outcomeError
	case len(items) == 0:
		return outcomeEmpty
	default:
		return outcomeItems
	}
}
