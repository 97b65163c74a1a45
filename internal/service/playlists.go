package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistService manages playlists and their video membership.
type PlaylistService struct {
	db    *gorm.DB
	users repository.UserRepository
}

// UpdatePlaylistInput is a partial update; nil fields are left unchanged.
type UpdatePlaylistInput struct {
	Name        *string
	Description *string
}

// Create stores a new empty playlist owned by actorID.
func (s *PlaylistService) Create(ctx context.Context, actorID, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperrors.ValidationError("name", "Name and description are required")
	}

	playlist := &models.Playlist{OwnerID: actorID, Name: name, Description: description}
	if err := s.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	playlist.Videos = []models.Video{}
	return playlist, nil
}

func (s *PlaylistService) find(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.db.WithContext(ctx).First(&playlist, "id = ?", playlistID).Error; err != nil {
		return nil, lookupError("Playlist", err)
	}
	return &playlist, nil
}

// loadVideos fills playlist.Videos in playlist order.
func (s *PlaylistService) loadVideos(ctx context.Context, playlist *models.Playlist) error {
	videos := []models.Video{}
	err := s.db.WithContext(ctx).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlist.ID).
		Order("playlist_videos.position ASC").
		Find(&videos).Error
	if err != nil {
		return fmt.Errorf("load playlist videos: %w", err)
	}
	playlist.Videos = videos
	return nil
}

// Get returns a playlist with its videos and owner summary.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if err := requireID("playlistId", playlistID); err != nil {
		return nil, err
	}
	var playlist models.Playlist
	err := s.db.WithContext(ctx).
		Preload("Owner", ownerSummary).
		First(&playlist, "id = ?", playlistID).Error
	if err != nil {
		return nil, lookupError("Playlist", err)
	}
	if err := s.loadVideos(ctx, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UserPlaylists returns the playlists of userID, newest first, videos included.
func (s *PlaylistService) UserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
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

	playlists := []models.Playlist{}
	err = s.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	for i := range playlists {
		if err := s.loadVideos(ctx, &playlists[i]); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

// Update renames or re-describes a playlist owned by actorID.
func (s *PlaylistService) Update(ctx context.Context, actorID, playlistID string, in UpdatePlaylistInput) (*models.Playlist, error) {
	if err := requireID("playlistId", playlistID); err != nil {
		return nil, err
	}
	playlist, err := s.find(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(playlist, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to update this playlist")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, apperrors.ValidationError("description", "Description cannot be empty")
		}
		updates["description"] = description
	}
	if len(updates) == 0 {
		return nil, apperrors.ValidationError("name", "Name and description are required")
	}

	if err := s.db.WithContext(ctx).Model(playlist).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return s.Get(ctx, playlistID)
}

// Delete removes a playlist owned by actorID and its memberships.
func (s *PlaylistService) Delete(ctx context.Context, actorID, playlistID string) error {
	if err := requireID("playlistId", playlistID); err != nil {
		return err
	}
	playlist, err := s.find(ctx, playlistID)
	if err != nil {
		return err
	}
	if !models.ActorOwns(playlist, actorID) {
		return apperrors.Forbidden("You are not authorized to delete this playlist")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// ownedForMembership validates both ids and loads a playlist actorID may modify.
func (s *PlaylistService) ownedForMembership(ctx context.Context, actorID, videoID, playlistID string) (*models.Playlist, error) {
	if err := requireID("playlistId", playlistID); err != nil {
		return nil, err
	}
	if err := requireID("videoId", videoID); err != nil {
		return nil, err
	}
	playlist, err := s.find(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !models.ActorOwns(playlist, actorID) {
		return nil, apperrors.Forbidden("You are not authorized to modify this playlist")
	}
	return playlist, nil
}

// AddVideo appends videoID to a playlist owned by actorID.
func (s *PlaylistService) AddVideo(ctx context.Context, actorID, videoID, playlistID string) (*models.Playlist, error) {
	playlist, err := s.ownedForMembership(ctx, actorID, videoID, playlistID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NotFound("Video")
	}

	var next int
	err = db.Model(&models.PlaylistVideo{}).
		Where("playlist_id = ?", playlist.ID).
		Select("COALESCE(MAX(position), -1) + 1").
		Scan(&next).Error
	if err != nil {
		return nil, fmt.Errorf("next playlist position: %w", err)
	}

	// The composite primary key decides races between concurrent adds.
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: videoID, Position: next})
	if res.Error != nil {
		return nil, fmt.Errorf("add playlist video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.BadRequest("Video already in playlist")
	}
	return s.Get(ctx, playlist.ID)
}

// RemoveVideo takes videoID out of a playlist owned by actorID.
func (s *PlaylistService) RemoveVideo(ctx context.Context, actorID, videoID, playlistID string) (*models.Playlist, error) {
	playlist, err := s.ownedForMembership(ctx, actorID, videoID, playlistID)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlist.ID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		return nil, fmt.Errorf("remove playlist video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.BadRequest("Video not in playlist")
	}
	return s.Get(ctx, playlist.ID)
}
