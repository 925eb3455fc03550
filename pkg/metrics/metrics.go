package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	JobsInQueue         prometheus.Gauge
	DiscoveriesTotal    *prometheus.CounterVec
	DiscoveryDuration   prometheus.Histogram
	CrawlPagesTotal     *prometheus.CounterVec
	VerificationsTotal  *prometheus.CounterVec
	SearchCallsTotal    *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	JobsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discovery_jobs_in_queue",
			Help: "Current number of queued discovery jobs.",
		},
	)

	DiscoveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discoveries_total",
			Help: "Total number of discovery runs.",
		},
		[]string{"status"}, // completed, no_hub, no_documents, failed
	)

	DiscoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "Duration of full discovery runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
	)

	CrawlPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_pages_total",
			Help: "Total number of pages fetched during hub crawls.",
		},
		[]string{"fetcher"}, // static, rendered
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verifications_total",
			Help: "Total number of candidate verification attempts.",
		},
		[]string{"outcome"}, // accepted, accepted_large, rejected, error
	)

	SearchCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_calls_total",
			Help: "Total number of search-provider calls.",
		},
		[]string{"status"}, // success, error
	)
}
