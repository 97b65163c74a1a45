package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"go.uber.org/zap"
)

const statsCacheName = "dashboard_stats"

// Store is the subset of RedisClient the stats cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// StatsCache keeps per-user dashboard stats as JSON for a short TTL.
// A nil store disables caching; every method is then a no-op.
type StatsCache struct {
	store Store
	ttl   time.Duration
}

func NewStatsCache(store Store, ttl time.Duration) *StatsCache {
	return &StatsCache{store: store, ttl: ttl}
}

func statsKey(userID string) string {
	return "stats:channel:" + userID
}

// Load decodes the cached stats of userID into dst and reports whether
// there was a usable entry.
func (s *StatsCache) Load(ctx context.Context, userID string, dst interface{}) bool {
	if s == nil || s.store == nil {
		return false
	}
	b, err := s.store.Get(ctx, statsKey(userID))
	if err != nil {
		if err != ErrMiss {
			logger.WarnWithFields("Stats cache read failed", err, logger.WithUserID(userID))
		}
		metrics.RecordCacheMiss(statsCacheName)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		logger.WarnWithFields("Stats cache entry is corrupt", err, logger.WithUserID(userID))
		metrics.RecordCacheMiss(statsCacheName)
		return false
	}
	metrics.RecordCacheHit(statsCacheName)
	return true
}

// Store caches v for userID. Failures are logged and otherwise ignored.
func (s *StatsCache) Store(ctx context.Context, userID string, v interface{}) {
	if s == nil || s.store == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.WarnWithFields("Failed to encode stats", err, logger.WithUserID(userID))
		return
	}
	if err := s.store.SetEx(ctx, statsKey(userID), b, s.ttl); err != nil {
		logger.WarnWithFields("Stats cache write failed", err, logger.WithUserID(userID))
	}
}

// Invalidate drops the cached stats of every given user.
func (s *StatsCache) Invalidate(ctx context.Context, userIDs ...string) {
	if s == nil || s.store == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			keys = append(keys, statsKey(id))
		}
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		logger.WarnWithFields("Stats cache invalidation failed", err, zap.Strings("keys", keys))
	}
}
