package repository

import (
	"context"
	"errors"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// summaryColumns are the user fields joined into other resources.
var summaryColumns = []string{"users.id", "users.username", "users.full_name", "users.avatar", "users.created_at"}

// UserRepository handles all database reads of users and of the
// subscription graph between them.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	GetUsers(ctx context.Context, userIDs []string) ([]*models.User, error)

	// Subscriptions
	GetSubscribers(ctx context.Context, channelID string) ([]*models.User, error)
	GetSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.User, error)
	GetSubscriberCount(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetUser gets a user by ID
func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail gets a user by email (case-insensitive)
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error

	return count > 0, err
}

// GetUsers gets the public summaries of multiple users by IDs
func (r *userRepository) GetUsers(ctx context.Context, userIDs []string) ([]*models.User, error) {
	users := []*models.User{}
	if len(userIDs) == 0 {
		return users, nil
	}

	err := r.db.WithContext(ctx).
		Select(summaryColumns).
		Where("id IN ?", userIDs).
		Find(&users).Error

	return users, err
}

// GetSubscribers gets the users subscribed to channelID, newest first.
func (r *userRepository) GetSubscribers(ctx context.Context, channelID string) ([]*models.User, error) {
	users := []*models.User{}

	err := r.db.WithContext(ctx).
		Select(summaryColumns).
		Joins("JOIN subscriptions ON subscriptions.subscriber_id = users.id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error

	return users, err
}

// GetSubscribedChannels gets the channels subscriberID follows, newest first.
func (r *userRepository) GetSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.User, error) {
	users := []*models.User{}

	err := r.db.WithContext(ctx).
		Select(summaryColumns).
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error

	return users, err
}

func (r *userRepository) GetSubscriberCount(ctx context.Context, channelID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error

	return count, err
}

func (r *userRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error

	return count > 0, err
}
