package service

import (
	"context"
	"fmt"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"gorm.io/gorm"
)

// DashboardService aggregates a channel's numbers for its owner.
type DashboardService struct {
	db     *gorm.DB
	users  repository.UserRepository
	stats  StatsCache
	videos *VideoService
}

// ChannelStats are the dashboard counters of one user.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
}

// Stats returns the channel stats of userID, served from the cache when fresh.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*ChannelStats, error) {
	var cached ChannelStats
	if s.stats.Load(ctx, userID, &cached) {
		return &cached, nil
	}

	db := s.db.WithContext(ctx)
	var stats ChannelStats

	if err := db.Model(&models.Video{}).Where("owner_id = ?", userID).Count(&stats.TotalVideos).Error; err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	subscribers, err := s.users.GetSubscriberCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	stats.TotalSubscribers = subscribers

	err = db.Model(&models.Video{}).
		Where("owner_id = ?", userID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error
	if err != nil {
		return nil, fmt.Errorf("sum views: %w", err)
	}

	if err := db.Model(&models.Like{}).Where("liked_by_id = ?", userID).Count(&stats.TotalLikes).Error; err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	s.stats.Store(ctx, userID, &stats)
	return &stats, nil
}

// Videos returns all of userID's videos, newest first.
func (s *DashboardService) Videos(ctx context.Context, userID string) ([]models.Video, error) {
	return s.videos.ChannelVideos(ctx, userID)
}
