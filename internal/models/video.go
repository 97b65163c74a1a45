package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VideoTitleMin       = 3
	VideoTitleMax       = 100
	VideoDescriptionMin = 3
	VideoDescriptionMax = 500
)

// Video is an uploaded video owned by one user.
type Video struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID     string  `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner       *User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title       string  `gorm:"size:100;not null" json:"title"`
	Description string  `gorm:"size:500;not null" json:"description"`
	VideoFile   string  `gorm:"not null" json:"videoFile"`
	Thumbnail   string  `gorm:"not null" json:"thumbnail"`
	Duration    float64 `gorm:"not null;default:0" json:"duration"` // seconds
	Views       int64   `gorm:"not null;default:0" json:"views"`
	// No gorm default: a default of true would override an explicit false.
	IsPublished bool `gorm:"not null" json:"isPublished"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = generateUUID()
	}
	return nil
}

// VideoSortFields are the columns a video listing may be ordered by,
// keyed by their API name.
var VideoSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}
