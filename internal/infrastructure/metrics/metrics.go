package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts finished recommendation requests by outcome
	// ("resolved", "unresolved", or a failure kind)
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoppingai_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shoppingai_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	// CompletionRequestsTotal counts chat-completion calls by HTTP status, "envelope"
	// for a 2xx answer without usable content, "error" when no status was received
	CompletionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoppingai_completion_requests_total",
			Help: "Total number of chat-completion API calls by status",
		},
		[]string{"status"},
	)

	RecommendationJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoppingai_recommendation_jobs_active",
			Help: "Number of recommendation jobs currently in flight",
		},
	)
)
