package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	FilterRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "filter_runs_total",
			Help:      "Total number of filter runs",
		},
		[]string{"content_type"},
	)

	FilterRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "filter_records_total",
			Help:      "Records seen and kept by the filter",
		},
		[]string{"content_type", "outcome"}, // "seen" / "kept"
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "exports_total",
			Help:      "Total number of exports",
		},
		[]string{"format", "status"},
	)

	FetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "fetch_requests_total",
			Help:      "Total number of metadata fetch requests",
		},
		[]string{"content_type", "status"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "generation_requests_total",
			Help:      "Total number of text generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ytcrawler",
			Name:      "generation_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcrawler",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(FilterRunsTotal)
	prometheus.MustRegister(FilterRecordsTotal)
	prometheus.MustRegister(ExportsTotal)
	prometheus.MustRegister(FetchRequestsTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	engineMetricsRegistered = true
}
