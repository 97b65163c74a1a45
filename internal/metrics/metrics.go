package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSize       *prometheus.HistogramVec
	HTTPResponseSize      *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec

	// Redis metrics
	RedisOperationDuration *prometheus.HistogramVec
	RedisOperationsTotal   *prometheus.CounterVec

	// Domain metrics
	TogglesTotal      *prometheus.CounterVec
	VideoViewsTotal   prometheus.Counter
	VideosPublished   prometheus.Counter
	UploadsTotal      *prometheus.CounterVec
	UploadDuration    *prometheus.HistogramVec
	SearchSyncTotal   *prometheus.CounterVec
	SearchSyncLatency *prometheus.HistogramVec

	// Background queue metrics
	QueueDepth   *prometheus.GaugeVec
	QueueDropped *prometheus.CounterVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 8),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			CacheHitsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),

			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"limiter", "method"},
			),

			RedisOperationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "redis_operation_duration_seconds",
					Help:    "Redis operation latency in seconds",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
				},
				[]string{"operation"},
			),
			RedisOperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "redis_operations_total",
					Help: "Total number of Redis operations",
				},
				[]string{"operation", "status"},
			),

			TogglesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "toggles_total",
					Help: "Like and subscription toggles by kind and resulting state",
				},
				[]string{"kind", "result"},
			),
			VideoViewsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "video_views_total",
					Help: "Total number of video views served",
				},
			),
			VideosPublished: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "videos_published_total",
					Help: "Total number of videos published",
				},
			),
			UploadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "blob_uploads_total",
					Help: "Blob uploads by backend, media kind and status",
				},
				[]string{"backend", "kind", "status"},
			),
			UploadDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "blob_upload_duration_seconds",
					Help:    "Blob upload latency in seconds",
					Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
				},
				[]string{"backend", "kind"},
			),
			SearchSyncTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "elasticsearch_index_operations_total",
					Help: "Search index sync operations by status",
				},
				[]string{"index", "operation", "status"},
			),
			SearchSyncLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "elasticsearch_index_operation_duration_seconds",
					Help:    "Duration of search index sync operations",
					Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
				},
				[]string{"index", "operation"},
			),

			QueueDepth: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "background_queue_depth",
					Help: "Jobs waiting in a background queue",
				},
				[]string{"queue"},
			),
			QueueDropped: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "background_queue_dropped_total",
					Help: "Jobs dropped because a background queue was full or stopped",
				},
				[]string{"queue"},
			),

			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	return Initialize()
}
