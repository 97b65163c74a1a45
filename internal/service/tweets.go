package service

import (
	"context"
	"fmt"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"gorm.io/gorm"
)

// TweetService manages short text posts.
type TweetService struct {
	db    *gorm.DB
	users repository.UserRepository
}

// Create posts a tweet as actorID.
func (s *TweetService) Create(ctx context.Context, actorID, content string) (*models.Tweet, error) {
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}

	tweet := &models.Tweet{OwnerID: actorID, Content: content}
	if err := s.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}
	return tweet, nil
}

// UserTweets returns the tweets of userID, newest first.
func (s *TweetService) UserTweets(ctx context.Context, userID string) ([]models.Tweet, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("User")
	}

	tweets := []models.Tweet{}
	err = s.db.WithContext(ctx).
		Preload("Owner", ownerSummary).
		Where("owner_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweets, nil
}

func (s *TweetService) find(ctx context.Context, tweetID string) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := s.db.WithContext(ctx).First(&tweet, "id = ?", tweetID).Error; err != nil {
		return nil, lookupError("Tweet", err)
	}
	return &tweet, nil
}

// Update replaces the content of a tweet owned by actorID.
func (s *TweetService) Update(ctx context.Context, actorID, tweetID, content string) (*models.Tweet, error) {
	if err := requireID("tweetId", tweetID); err != nil {
		return nil, err
	}
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}
	tweet, err := s.find(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(tweet, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to update this tweet")
	}

	if err := s.db.WithContext(ctx).Model(tweet).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return s.find(ctx, tweetID)
}

// Delete removes a tweet owned by actorID and the likes on it.
func (s *TweetService) Delete(ctx context.Context, actorID, tweetID string) error {
	if err := requireID("tweetId", tweetID); err != nil {
		return err
	}
	tweet, err := s.find(ctx, tweetID)
	if err != nil {
		return err
	}
	if !models.ActorOwns(tweet, actorID) {
		return apperrors.Forbidden("You are not authorized to delete this tweet")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(tweet).Error
	})
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	return nil
}
