package metrics

import (
	"time"
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordCacheHit(cacheName string) {
	Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

func RecordCacheMiss(cacheName string) {
	Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

func RecordRateLimitExceeded(limiter, method string) {
	Get().RateLimitExceededTotal.WithLabelValues(limiter, method).Inc()
}

func RecordRedisOperation(operation string, duration time.Duration, err error) {
	m := Get()
	m.RedisOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.RedisOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordToggle counts a toggle by kind ("like.video", "subscription", ...)
// and whether the relation ended up present.
func RecordToggle(kind string, present bool) {
	result := "removed"
	if present {
		result = "added"
	}
	Get().TogglesTotal.WithLabelValues(kind, result).Inc()
}

func RecordVideoView() {
	Get().VideoViewsTotal.Inc()
}

func RecordVideoPublished() {
	Get().VideosPublished.Inc()
}

func RecordUpload(backend, kind string, duration time.Duration, err error) {
	m := Get()
	m.UploadsTotal.WithLabelValues(backend, kind, statusLabel(err)).Inc()
	if err == nil {
		m.UploadDuration.WithLabelValues(backend, kind).Observe(duration.Seconds())
	}
}

func RecordSearchSync(index, operation string, duration time.Duration, err error) {
	m := Get()
	m.SearchSyncTotal.WithLabelValues(index, operation, statusLabel(err)).Inc()
	m.SearchSyncLatency.WithLabelValues(index, operation).Observe(duration.Seconds())
}

func RecordError(errorType, endpoint string) {
	Get().ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

func SetQueueDepth(queue string, depth int) {
	Get().QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

func RecordQueueDropped(queue string) {
	Get().QueueDropped.WithLabelValues(queue).Inc()
}
