package search

import (
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
)

// VideoDoc represents a video document for Elasticsearch indexing
type VideoDoc struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Username    string  `json:"username,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	Views       int64   `json:"views"`
	IsPublished bool    `json:"isPublished"`
	CreatedAt   string  `json:"createdAt"`
	// SyncedAt is when the document was last written. Reindex prunes
	// documents it did not refresh.
	SyncedAt string `json:"syncedAt"`
}

// VideoToDoc converts a Video model to a search document
func VideoToDoc(v *models.Video) VideoDoc {
	doc := VideoDoc{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
		SyncedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	if v.Owner != nil {
		doc.Username = v.Owner.Username
	}
	return doc
}
