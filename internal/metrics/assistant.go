package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "shopassist"

// Assistant Prometheus metrics.
var (
	// RepliesTotal counts replies by source (canned/catalog) and retrieval outcome.
	RepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_replies_total",
			Help:      "Assistant replies by source and retrieval outcome",
		},
		[]string{"source", "outcome"},
	)

	// CannedRepliesTotal counts which conversational rule fired.
	CannedRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_canned_replies_total",
			Help:      "Canned replies by intent rule",
		},
		[]string{"rule"},
	)

	// RetrievalHits observes the number of products returned per catalog search.
	RetrievalHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_hits",
			Help:      "Products returned per catalog search",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 8, 10},
		},
	)

	// CatalogEntries is the size of the loaded catalog index.
	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_entries",
			Help:      "Number of products in the catalog index",
		},
	)
)

var assistantMetricsRegistered bool

// RegisterAssistantMetrics registers assistant metrics. Must be called once from main.
func RegisterAssistantMetrics() {
	if assistantMetricsRegistered {
		return
	}
	prometheus.MustRegister(RepliesTotal, CannedRepliesTotal, RetrievalHits, CatalogEntries)
	assistantMetricsRegistered = true
}
