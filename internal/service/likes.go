package service

import (
	"context"
	"fmt"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeService toggles likes on videos, comments and tweets.
type LikeService struct {
	db    *gorm.DB
	stats StatsCache
}

// LikeResult reports whether the actor likes the target after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
}

var likeTargets = map[models.LikeTarget]struct {
	field    string
	resource string
	model    func() interface{}
}{
	models.LikeTargetVideo:   {"videoId", "Video", func() interface{} { return &models.Video{} }},
	models.LikeTargetComment: {"commentId", "Comment", func() interface{} { return &models.Comment{} }},
	models.LikeTargetTweet:   {"tweetId", "Tweet", func() interface{} { return &models.Tweet{} }},
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, actorID, videoID string) (*LikeResult, error) {
	return s.toggle(ctx, actorID, models.LikeTargetVideo, videoID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actorID, commentID string) (*LikeResult, error) {
	return s.toggle(ctx, actorID, models.LikeTargetComment, commentID)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*LikeResult, error) {
	return s.toggle(ctx, actorID, models.LikeTargetTweet, tweetID)
}

// toggle deletes the actor's like on the target if there is one and creates
// it otherwise. The delete and the conflict-free insert are each atomic, so
// concurrent toggles never produce a duplicate like.
func (s *LikeService) toggle(ctx context.Context, actorID string, kind models.LikeTarget, targetID string) (*LikeResult, error) {
	target, ok := likeTargets[kind]
	if !ok {
		return nil, apperrors.BadRequest("unsupported like target")
	}
	if err := requireID(target.field, targetID); err != nil {
		return nil, err
	}

	ctx, span := telemetry.GetBusinessEvents().TraceToggle(ctx, "like."+string(kind), actorID, targetID)
	defer span.End()

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(target.model()).Where("id = ?", targetID).Count(&count).Error; err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if count == 0 {
		return nil, apperrors.NotFound(target.resource)
	}

	column := kind.Column()
	res := db.Where("liked_by_id = ? AND "+column+" = ?", actorID, targetID).Delete(&models.Like{})
	if res.Error != nil {
		telemetry.RecordError(span, res.Error)
		return nil, fmt.Errorf("unlike %s: %w", kind, res.Error)
	}

	liked := res.RowsAffected == 0
	if liked {
		// A concurrent toggle may have inserted first; the like exists either way.
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.NewLike(actorID, kind, targetID)).Error
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("like %s: %w", kind, err)
		}
	}

	telemetry.RecordToggleResult(span, liked)
	metrics.RecordToggle("like."+string(kind), liked)
	s.stats.Invalidate(ctx, actorID)
	return &LikeResult{Liked: liked}, nil
}

// LikedVideos returns the videos actorID liked, most recently liked first.
// Unpublished videos are only listed for their owner.
func (s *LikeService) LikedVideos(ctx context.Context, actorID string) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.db.WithContext(ctx).
		Preload("Owner", ownerSummary).
		Joins("JOIN likes ON likes.video_id = videos.id").
		Where("likes.liked_by_id = ?", actorID).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, actorID).
		Order("likes.created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("list liked videos: %w", err)
	}
	return videos, nil
}
