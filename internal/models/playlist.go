package models

import (
	"time"

	"gorm.io/gorm"
)

// Playlist is an ordered, duplicate-free list of videos owned by one user.
type Playlist struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID     string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner       *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Loaded from playlist_videos in position order.
	Videos []Video `gorm:"-" json:"videos"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Playlist) TableName() string {
	return "playlists"
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

// PlaylistVideo is one membership of a video in a playlist. The composite
// primary key keeps a playlist free of duplicates.
type PlaylistVideo struct {
	PlaylistID string    `gorm:"primaryKey;type:uuid" json:"playlistId"`
	VideoID    string    `gorm:"primaryKey;type:uuid;index" json:"videoId"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
