package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// requireID rejects a malformed identifier before anything touches the store.
func requireID(field, id string) error {
	if !models.IsValidID(id) {
		return apperrors.InvalidID(field)
	}
	return nil
}

// lookupError turns a failed single-record read into NotFound or a wrapped
// store error.
func lookupError(resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource)
	}
	return fmt.Errorf("load %s: %w", strings.ToLower(resource), err)
}

// ownerSummary limits a preloaded owner to its public fields.
func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "full_name", "avatar")
}

// PageRequest is a 1-indexed page of a listing.
type PageRequest struct {
	Page  int
	Limit int
}

// normalized clamps page to >= 1 and limit to 1..MaxLimit. A zero limit
// means the default.
func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing plus the totals needed to walk the rest.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages(total, req.Limit),
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}
