package pagerank

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rankengine",
		Subsystem: "pagerank",
		Name:      "passes_total",
		Help:      "The total number of PageRank update passes by outcome",
	}, []string{"outcome"})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rankengine",
		Subsystem: "pagerank",
		Name:      "pass_duration_seconds",
		Help:      "The time it took to complete a PageRank update pass",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	documentCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rankengine",
		Subsystem: "pagerank",
		Name:      "documents",
		Help:      "The number of documents processed by the last PageRank pass",
	})

	edgeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rankengine",
		Subsystem: "pagerank",
		Name:      "edges",
		Help:      "The number of distinct edges used by the last PageRank pass",
	})
)
