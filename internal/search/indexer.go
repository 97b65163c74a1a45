package search

import (
	"context"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
)

const syncTimeout = 3 * time.Second

// Backend is the part of Client the indexer drives.
type Backend interface {
	IndexVideo(ctx context.Context, doc VideoDoc) error
	DeleteVideo(ctx context.Context, videoID string) error
}

var _ Backend = (*Client)(nil)

// VideoIndexer mirrors video writes into the search index. Sync is best
// effort: failures are logged and never reach the caller, and a request
// that was already cancelled still gets its sync attempt.
type VideoIndexer struct {
	backend Backend
}

// NewVideoIndexer returns an indexer over backend. A nil backend yields an
// indexer that does nothing.
func NewVideoIndexer(backend Backend) *VideoIndexer {
	return &VideoIndexer{backend: backend}
}

// Upsert indexes the current state of v.
func (i *VideoIndexer) Upsert(ctx context.Context, v *models.Video) {
	if i == nil || i.backend == nil || v == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)
	defer cancel()

	if err := i.backend.IndexVideo(ctx, VideoToDoc(v)); err != nil {
		logger.WarnWithFields("Search index sync failed", err, logger.WithVideoID(v.ID))
	}
}

// Remove deletes the document of videoID.
func (i *VideoIndexer) Remove(ctx context.Context, videoID string) {
	if i == nil || i.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)
	defer cancel()

	if err := i.backend.DeleteVideo(ctx, videoID); err != nil {
		logger.WarnWithFields("Search index delete failed", err, logger.WithVideoID(videoID))
	}
}
