package service

import (
	"context"
	"fmt"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionService toggles and lists channel subscriptions.
type SubscriptionService struct {
	db    *gorm.DB
	users repository.UserRepository
	stats StatsCache
}

// SubscriptionResult reports whether the actor is subscribed after a toggle.
type SubscriptionResult struct {
	Subscribed bool `json:"subscribed"`
}

// Toggle subscribes actorID to channelID, or unsubscribes when already subscribed.
func (s *SubscriptionService) Toggle(ctx context.Context, actorID, channelID string) (*SubscriptionResult, error) {
	if err := requireID("channelId", channelID); err != nil {
		return nil, err
	}
	if channelID == actorID {
		return nil, apperrors.ValidationError("channelId", "You cannot subscribe to yourself")
	}

	ctx, span := telemetry.GetBusinessEvents().TraceToggle(ctx, "subscription", actorID, channelID)
	defer span.End()

	exists, err := s.users.UserExists(ctx, channelID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load channel: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("Channel")
	}

	db := s.db.WithContext(ctx)
	res := db.Where("subscriber_id = ? AND channel_id = ?", actorID, channelID).Delete(&models.Subscription{})
	if res.Error != nil {
		telemetry.RecordError(span, res.Error)
		return nil, fmt.Errorf("unsubscribe: %w", res.Error)
	}

	subscribed := res.RowsAffected == 0
	if subscribed {
		sub := &models.Subscription{SubscriberID: actorID, ChannelID: channelID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("subscribe: %w", err)
		}
	}

	telemetry.RecordToggleResult(span, subscribed)
	metrics.RecordToggle("subscription", subscribed)
	s.stats.Invalidate(ctx, channelID)
	return &SubscriptionResult{Subscribed: subscribed}, nil
}

// Subscribers lists the users subscribed to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]*models.User, error) {
	if err := requireID("channelId", channelID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, channelID, "Channel"); err != nil {
		return nil, err
	}
	users, err := s.users.GetSubscribers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return users, nil
}

// SubscribedChannels lists the channels subscriberID is subscribed to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]*models.User, error) {
	if err := requireID("subscriberId", subscriberID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, subscriberID, "Subscriber"); err != nil {
		return nil, err
	}
	users, err := s.users.GetSubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscribed channels: %w", err)
	}
	return users, nil
}

func (s *SubscriptionService) requireUser(ctx context.Context, userID, resource string) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("load %s: %w", resource, err)
	}
	if !exists {
		return apperrors.NotFound(resource)
	}
	return nil
}
