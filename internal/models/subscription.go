package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSelfSubscription = errors.New("a user cannot subscribe to their own channel")

// Subscription records that Subscriber follows Channel. Unique per
// (subscriber, channel) through idx_subscriptions_pair.
type Subscription struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	SubscriberID string `gorm:"type:uuid;not null;index" json:"subscriberId"`
	Subscriber   *User  `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	ChannelID    string `gorm:"type:uuid;not null;index" json:"channelId"`
	Channel      *User  `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.SubscriberID == s.ChannelID {
		return ErrSelfSubscription
	}
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}
