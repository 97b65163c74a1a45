package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a text comment on a video.
type Comment struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	VideoID string `gorm:"type:uuid;not null;index" json:"videoId"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}
