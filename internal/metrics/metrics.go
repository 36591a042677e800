package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconsult_model_calls_total",
			Help: "Total model completion API calls",
		},
		[]string{"model", "status"},
	)

	ModelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legalconsult_model_latency_seconds",
			Help:    "Model completion latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconsult_renders_total",
			Help: "Total markdown renders by surface",
		},
		[]string{"surface"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalconsult_sessions_created_total",
			Help: "Total consultation sessions created",
		},
	)

	MessagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconsult_messages_stored_total",
			Help: "Total chat messages stored",
		},
		[]string{"role"},
	)

	DocumentsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalconsult_documents_ingested_total",
			Help: "Total corpus documents ingested",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconsult_cache_requests_total",
			Help: "Completion cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
