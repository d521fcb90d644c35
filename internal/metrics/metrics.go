package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics exposed on GET /api/v1/metrics
// - API latency and throughput
// - Rating aggregate recomputes
// - Bulk maintenance and catalog import outcomes
// - Search cache efficiency and rate limiting

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting",
		},
	)

	// Rating Metrics
	RatingRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_recomputes_total",
			Help: "Total number of fragrance rating recomputes",
		},
		[]string{"trigger"}, // "comment_created", "comment_deleted", "repair"
	)

	// Maintenance Metrics
	BulkRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_rows_total",
			Help: "Total number of rows processed by admin bulk operations",
		},
		[]string{"action", "outcome"}, // outcome: "updated", "skipped", "not_found", "failed"
	)

	ImportEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_entries_total",
			Help: "Total number of catalog import entries",
		},
		[]string{"outcome"}, // "success", "failed"
	)

	// Search Cache Metrics
	SearchCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_requests_total",
			Help: "Total number of search cache lookups",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	// Live Feed Metrics
	FeedConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_websocket_connections",
			Help: "Current number of live review feed connections",
		},
	)
)

// RecordAPIRequest records API request metrics
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRatingRecompute counts a rating aggregate recompute
func RecordRatingRecompute(trigger string) {
	RatingRecomputes.WithLabelValues(trigger).Inc()
}

// RecordBulkRows adds n rows with the given outcome to a bulk action
func RecordBulkRows(action, outcome string, n int) {
	if n <= 0 {
		return
	}
	BulkRows.WithLabelValues(action, outcome).Add(float64(n))
}

// RecordImportEntry counts one import entry
func RecordImportEntry(success bool) {
	if success {
		ImportEntries.WithLabelValues("success").Inc()
		return
	}
	ImportEntries.WithLabelValues("failed").Inc()
}

// RecordSearchCache counts a search cache lookup ("hit", "miss", "error")
func RecordSearchCache(result string) {
	SearchCacheRequests.WithLabelValues(result).Inc()
}
