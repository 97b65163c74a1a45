package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"gorm.io/gorm"
)

// CommentService manages comments on videos.
type CommentService struct {
	db *gorm.DB
}

func requireContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.ValidationError("content", "Content is required")
	}
	return content, nil
}

func (s *CommentService) requireVideo(ctx context.Context, videoID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return fmt.Errorf("load video: %w", err)
	}
	if count == 0 {
		return apperrors.NotFound("Video")
	}
	return nil
}

// List returns one page of a video's comments, newest first, with the
// commenter's summary.
func (s *CommentService) List(ctx context.Context, videoID string, page PageRequest) (*Page[models.Comment], error) {
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	req := page.normalized()

	query := s.db.WithContext(ctx).Model(&models.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	var comments []models.Comment
	err := query.
		Preload("Owner", ownerSummary).
		Order("created_at DESC, id DESC").
		Offset(req.offset()).
		Limit(req.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return newPage(comments, total, req), nil
}

// Add comments on videoID as actorID.
func (s *CommentService) Add(ctx context.Context, actorID, videoID, content string) (*models.Comment, error) {
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{VideoID: videoID, OwnerID: actorID, Content: content}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) find(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		return nil, lookupError("Comment", err)
	}
	return &comment, nil
}

// Update replaces the content of a comment owned by actorID.
func (s *CommentService) Update(ctx context.Context, actorID, commentID, content string) (*models.Comment, error) {
	if err := requireID("commentId", commentID); err != nil {
		return nil, err
	}
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(comment, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to update this comment")
	}

	if err := s.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return s.find(ctx, commentID)
}

// Delete removes a comment owned by actorID and the likes on it.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	if err := requireID("commentId", commentID); err != nil {
		return err
	}
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return err
	}
	if !models.ActorOwns(comment, actorID) {
		return apperrors.Forbidden("You are not authorized to delete this comment")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
