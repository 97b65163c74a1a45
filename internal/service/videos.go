package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/storage"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"gorm.io/gorm"
)

// VideoService publishes, reads and edits videos.
type VideoService struct {
	deps  Deps
	users repository.UserRepository
}

// ListVideosParams filters the public video listing.
type ListVideosParams struct {
	PageRequest
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// PublishVideoInput is a new video whose media files are already on local disk.
type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	VideoSize     int64
}

// UpdateVideoInput is a partial update. Nil fields are left unchanged and
// an empty ThumbnailPath keeps the current thumbnail.
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < models.VideoTitleMin || n > models.VideoTitleMax {
		return apperrors.ValidationError("title", fmt.Sprintf("Title must be between %d and %d characters", models.VideoTitleMin, models.VideoTitleMax))
	}
	return nil
}

func validateDescription(description string) error {
	if n := utf8.RuneCountInString(description); n < models.VideoDescriptionMin || n > models.VideoDescriptionMax {
		return apperrors.ValidationError("description", fmt.Sprintf("Description must be between %d and %d characters", models.VideoDescriptionMin, models.VideoDescriptionMax))
	}
	return nil
}

// orderClause resolves the requested sort into an ORDER BY expression.
func orderClause(sortBy, sortType string) (string, error) {
	column := "created_at"
	if sortBy != "" {
		c, ok := models.VideoSortFields[sortBy]
		if !ok {
			return "", apperrors.ValidationError("sortBy", "Invalid sortBy")
		}
		column = c
	}

	direction := "DESC"
	switch strings.ToLower(sortType) {
	case "", "desc":
	case "asc":
		direction = "ASC"
	default:
		return "", apperrors.ValidationError("sortType", "Invalid sortType")
	}
	// id breaks ties so pages never overlap.
	return fmt.Sprintf("%s %s, id %s", column, direction, direction), nil
}

// List returns one page of published videos with their owner summaries.
func (s *VideoService) List(ctx context.Context, params ListVideosParams) (*Page[models.Video], error) {
	req := params.PageRequest.normalized()

	order, err := orderClause(params.SortBy, params.SortType)
	if err != nil {
		return nil, err
	}

	db := s.deps.DB.WithContext(ctx)
	query := db.Model(&models.Video{}).Where("is_published = ?", true)

	if params.UserID != "" {
		if err := requireID("userId", params.UserID); err != nil {
			return nil, err
		}
		exists, err := s.users.UserExists(ctx, params.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if !exists {
			return nil, apperrors.NotFound("User")
		}
		query = query.Where("owner_id = ?", params.UserID)
	}

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := likePattern(q)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	var videos []models.Video
	err = query.
		Preload("Owner", ownerSummary).
		Order(order).
		Offset(req.offset()).
		Limit(req.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	return newPage(videos, total, req), nil
}

// Publish uploads the media files and stores a new published video owned by
// actorID. Nothing is written when either upload fails.
func (s *VideoService) Publish(ctx context.Context, actorID string, in PublishVideoInput) (*models.Video, error) {
	if in.VideoPath == "" {
		return nil, apperrors.ValidationError("videoFile", "Video file is required")
	}
	if in.ThumbnailPath == "" {
		return nil, apperrors.ValidationError("thumbnail", "Thumbnail image is required")
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperrors.ValidationError("title", "Title and description are required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	ctx, span := telemetry.GetBusinessEvents().TraceVideoPublish(ctx, telemetry.VideoEventAttrs{
		OwnerID:  actorID,
		FileSize: in.VideoSize,
	})
	defer span.End()

	uploadCtx, cancel := context.WithTimeout(ctx, s.deps.UploadTimeout)
	defer cancel()

	videoFile, err := s.deps.Uploader.Upload(uploadCtx, in.VideoPath, storage.KindVideo)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload video file: %w", err)
	}
	thumbnail, err := s.deps.Uploader.Upload(uploadCtx, in.ThumbnailPath, storage.KindThumbnail)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	video := &models.Video{
		OwnerID:     actorID,
		Title:       title,
		Description: description,
		VideoFile:   videoFile.URL,
		Thumbnail:   thumbnail.URL,
		Duration:    s.duration(uploadCtx, in.VideoPath, videoFile),
		IsPublished: true,
	}
	if err := s.deps.DB.WithContext(ctx).Create(video).Error; err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create video: %w", err)
	}

	telemetry.RecordVideo(span, telemetry.VideoEventAttrs{
		VideoID:     video.ID,
		Duration:    video.Duration,
		IsPublished: video.IsPublished,
	})
	metrics.RecordVideoPublished()
	s.deps.Index.Upsert(ctx, video)
	s.deps.Stats.Invalidate(ctx, actorID)
	return video, nil
}

// duration prefers the backend's figure and falls back to probing the local
// file. A failed probe leaves the duration at zero.
func (s *VideoService) duration(ctx context.Context, path string, res *storage.UploadResult) float64 {
	if res.Duration > 0 {
		return res.Duration
	}
	if s.deps.Prober == nil {
		return 0
	}
	d, err := s.deps.Prober.Duration(ctx, path)
	if err != nil {
		logger.WarnWithFields("Failed to probe video duration", err)
		return 0
	}
	return d
}

// Get returns a video after atomically counting one more view.
func (s *VideoService) Get(ctx context.Context, videoID string) (*models.Video, error) {
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}

	ctx, span := telemetry.GetBusinessEvents().TraceVideoView(ctx, videoID)
	defer span.End()

	db := s.deps.DB.WithContext(ctx)
	res := db.Model(&models.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		telemetry.RecordError(span, res.Error)
		return nil, fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("Video")
	}
	metrics.RecordVideoView()

	var video models.Video
	if err := db.Preload("Owner", ownerSummary).First(&video, "id = ?", videoID).Error; err != nil {
		return nil, lookupError("Video", err)
	}
	return &video, nil
}

// find loads a video without side effects.
func (s *VideoService) find(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	if err := s.deps.DB.WithContext(ctx).First(&video, "id = ?", videoID).Error; err != nil {
		return nil, lookupError("Video", err)
	}
	return &video, nil
}

// Update edits the title, description or thumbnail of a video owned by actorID.
func (s *VideoService) Update(ctx context.Context, actorID, videoID string, in UpdateVideoInput) (*models.Video, error) {
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}
	video, err := s.find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(video, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to update this video")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		updates["description"] = description
	}
	if in.ThumbnailPath != "" {
		uploadCtx, cancel := context.WithTimeout(ctx, s.deps.UploadTimeout)
		defer cancel()
		thumbnail, err := s.deps.Uploader.Upload(uploadCtx, in.ThumbnailPath, storage.KindThumbnail)
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", err)
		}
		updates["thumbnail"] = thumbnail.URL
	}

	if len(updates) > 0 {
		if err := s.deps.DB.WithContext(ctx).Model(video).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update video: %w", err)
		}
	}

	updated, err := s.find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.deps.Index.Upsert(ctx, updated)
	return updated, nil
}

// Delete removes a video owned by actorID together with its playlist
// entries, its comments and every like on the video or those comments.
func (s *VideoService) Delete(ctx context.Context, actorID, videoID string) error {
	if err := requireID("videoId", videoID); err != nil {
		return err
	}
	video, err := s.find(ctx, videoID)
	if err != nil {
		return err
	}
	if !models.ActorOwns(video, actorID) {
		return apperrors.Forbidden("You are not authorized to delete this video")
	}

	var likers []string
	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := func() *gorm.DB {
			return tx.Model(&models.Comment{}).Select("id").Where("video_id = ?", videoID)
		}
		err := tx.Model(&models.Like{}).
			Where("video_id = ? OR comment_id IN (?)", videoID, comments()).
			Distinct().
			Pluck("liked_by_id", &likers).Error
		if err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ? OR comment_id IN (?)", videoID, comments()).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", videoID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(video).Error
	})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	s.deps.Index.Remove(ctx, videoID)
	// Likers lose the deleted likes from their totals.
	s.deps.Stats.Invalidate(ctx, append(likers, actorID)...)
	return nil
}

// TogglePublish flips the published flag of a video owned by actorID.
func (s *VideoService) TogglePublish(ctx context.Context, actorID, videoID string) (*models.Video, error) {
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}
	video, err := s.find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(video, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to update this video")
	}

	err = s.deps.DB.WithContext(ctx).Model(video).
		Update("is_published", gorm.Expr("NOT is_published")).Error
	if err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}

	updated, err := s.find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.deps.Index.Upsert(ctx, updated)
	return updated, nil
}

// ChannelVideos returns every video of ownerID, published or not, newest first.
func (s *VideoService) ChannelVideos(ctx context.Context, ownerID string) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.deps.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}
	return videos, nil
}
