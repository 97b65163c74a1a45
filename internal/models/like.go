package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// LikeTarget is the kind of content a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Column returns the likes column holding the target id.
func (t LikeTarget) Column() string {
	switch t {
	case LikeTargetVideo:
		return "video_id"
	case LikeTargetComment:
		return "comment_id"
	case LikeTargetTweet:
		return "tweet_id"
	}
	return ""
}

var ErrLikeTarget = errors.New("like must reference exactly one of video, comment or tweet")

// Like records that a user liked one video, comment or tweet. Exactly one
// target column is set. Uniqueness per (user, target) is enforced by the
// idx_likes_*_actor indexes created in database.Migrate. Likes are hard
// deleted so the unique indexes stay meaningful.
type Like struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	LikedByID string  `gorm:"type:uuid;not null;index" json:"likedBy"`
	VideoID   *string `gorm:"type:uuid" json:"videoId,omitempty"`
	CommentID *string `gorm:"type:uuid" json:"commentId,omitempty"`
	TweetID   *string `gorm:"type:uuid" json:"tweetId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

// NewLike builds a like by actorID on the given target.
func NewLike(actorID string, target LikeTarget, targetID string) *Like {
	l := &Like{LikedByID: actorID}
	id := targetID
	switch target {
	case LikeTargetVideo:
		l.VideoID = &id
	case LikeTargetComment:
		l.CommentID = &id
	case LikeTargetTweet:
		l.TweetID = &id
	}
	return l
}

// Target returns the kind and id of the liked content.
func (l *Like) Target() (LikeTarget, string, error) {
	var (
		kind LikeTarget
		id   string
		n    int
	)
	if l.VideoID != nil {
		kind, id, n = LikeTargetVideo, *l.VideoID, n+1
	}
	if l.CommentID != nil {
		kind, id, n = LikeTargetComment, *l.CommentID, n+1
	}
	if l.TweetID != nil {
		kind, id, n = LikeTargetTweet, *l.TweetID, n+1
	}
	if n != 1 {
		return "", "", ErrLikeTarget
	}
	return kind, id, nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if _, _, err := l.Target(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}
