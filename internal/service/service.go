// Package service holds the domain operations behind the HTTP API. Every
// operation receives the acting user explicitly; nothing is read from a
// request context besides cancellation and tracing.
package service

import (
	"context"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/media"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/storage"
	"gorm.io/gorm"
)

const defaultUploadTimeout = 60 * time.Second

// VideoIndex mirrors video writes into the external search service.
// Implementations must not fail the caller.
type VideoIndex interface {
	Upsert(ctx context.Context, v *models.Video)
	Remove(ctx context.Context, videoID string)
}

// StatsCache caches dashboard stats per user.
type StatsCache interface {
	Load(ctx context.Context, userID string, dst interface{}) bool
	Store(ctx context.Context, userID string, v interface{})
	Invalidate(ctx context.Context, userIDs ...string)
}

// Deps are the collaborators shared by all services. Only DB is required.
type Deps struct {
	DB            *gorm.DB
	Uploader      storage.Uploader
	Prober        media.Prober
	Index         VideoIndex
	Stats         StatsCache
	UploadTimeout time.Duration
}

// Services groups one service per resource.
type Services struct {
	Videos        *VideoService
	Comments      *CommentService
	Tweets        *TweetService
	Playlists     *PlaylistService
	Likes         *LikeService
	Subscriptions *SubscriptionService
	Dashboard     *DashboardService
}

// New builds every service over deps, filling unset collaborators with
// no-op implementations.
func New(deps Deps) *Services {
	if deps.Uploader == nil {
		deps.Uploader = storage.Disabled{}
	}
	if deps.Index == nil {
		deps.Index = noopIndex{}
	}
	if deps.Stats == nil {
		deps.Stats = noopStats{}
	}
	if deps.UploadTimeout <= 0 {
		deps.UploadTimeout = defaultUploadTimeout
	}

	users := repository.NewUserRepository(deps.DB)
	videos := &VideoService{deps: deps, users: users}
	return &Services{
		Videos:        videos,
		Comments:      &CommentService{db: deps.DB},
		Tweets:        &TweetService{db: deps.DB, users: users},
		Playlists:     &PlaylistService{db: deps.DB, users: users},
		Likes:         &LikeService{db: deps.DB, stats: deps.Stats},
		Subscriptions: &SubscriptionService{db: deps.DB, users: users, stats: deps.Stats},
		Dashboard:     &DashboardService{db: deps.DB, users: users, stats: deps.Stats, videos: videos},
	}
}

type noopIndex struct{}

func (noopIndex) Upsert(context.Context, *models.Video) {}
func (noopIndex) Remove(context.Context, string)        {}

type noopStats struct{}

func (noopStats) Load(context.Context, string, interface{}) bool { return false }
func (noopStats) Store(context.Context, string, interface{})     {}
func (noopStats) Invalidate(context.Context, ...string)          {}
