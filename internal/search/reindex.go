package search

import (
	"context"
	"fmt"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reindexBatchSize = 200

// ReindexBackend is a Backend that can also drop documents a reindex did
// not refresh.
type ReindexBackend interface {
	Backend
	DeleteStaleVideos(ctx context.Context, before time.Time) (int, error)
}

var _ ReindexBackend = (*Client)(nil)

// Reindex pushes every stored video into the index in batches, then deletes
// the documents of videos that no longer exist. It returns how many
// documents were written and stops at the first failure; nothing is pruned
// after a failed write.
func Reindex(ctx context.Context, db *gorm.DB, backend ReindexBackend) (int, error) {
	start := time.Now()
	indexed := 0

	var batch []models.Video
	result := db.WithContext(ctx).
		Preload("Owner", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username")
		}).
		FindInBatches(&batch, reindexBatchSize, func(tx *gorm.DB, n int) error {
			for i := range batch {
				if err := backend.IndexVideo(ctx, VideoToDoc(&batch[i])); err != nil {
					return fmt.Errorf("video %s: %w", batch[i].ID, err)
				}
				indexed++
			}
			logger.Log.Info("Reindexed batch", zap.Int("batch", n), zap.Int("indexed", indexed))
			return nil
		})
	if result.Error != nil {
		return indexed, fmt.Errorf("reindex failed after %d videos: %w", indexed, result.Error)
	}

	pruned, err := backend.DeleteStaleVideos(ctx, start)
	if err != nil {
		return indexed, fmt.Errorf("prune stale documents: %w", err)
	}

	logger.Log.Info("Search reindex completed",
		zap.Int("videos", indexed),
		zap.Int("pruned", pruned),
		zap.Duration("duration", time.Since(start)),
	)
	return indexed, nil
}
