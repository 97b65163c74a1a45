package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

// CreatePlaylist creates a new playlist
// POST /api/v1/playlists
func (h *Handlers) CreatePlaylist(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}

	playlist, err := h.services.Playlists.Create(c.Request.Context(), actorID, req.Name, req.Description)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondCreated(c, "Playlist created", playlist)
}

// GetUserPlaylists returns a user's playlists
// GET /api/v1/playlists/user/:userId
func (h *Handlers) GetUserPlaylists(c *gin.Context) {
	playlists, err := h.services.Playlists.UserPlaylists(c.Request.Context(), c.Param("userId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, listMessage(len(playlists), "No playlists found for this user", "User playlists fetched successfully"), playlists)
}

// GetPlaylist returns a single playlist with its videos
// GET /api/v1/playlists/:playlistId
func (h *Handlers) GetPlaylist(c *gin.Context) {
	playlist, err := h.services.Playlists.Get(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Playlist fetched successfully", playlist)
}

// UpdatePlaylist updates playlist metadata
// PATCH /api/v1/playlists/:playlistId
func (h *Handlers) UpdatePlaylist(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}

	playlist, err := h.services.Playlists.Update(c.Request.Context(), actorID, c.Param("playlistId"), service.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Playlist updated successfully", playlist)
}

// DeletePlaylist deletes a playlist
// DELETE /api/v1/playlists/:playlistId
func (h *Handlers) DeletePlaylist(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	if err := h.services.Playlists.Delete(c.Request.Context(), actorID, c.Param("playlistId")); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Playlist deleted successfully", nil)
}

// AddVideoToPlaylist appends a video to a playlist
// PATCH /api/v1/playlists/add/:videoId/:playlistId
func (h *Handlers) AddVideoToPlaylist(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	playlist, err := h.services.Playlists.AddVideo(c.Request.Context(), actorID, c.Param("videoId"), c.Param("playlistId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Video added to playlist successfully", playlist)
}

// RemoveVideoFromPlaylist removes a video from a playlist
// PATCH /api/v1/playlists/remove/:videoId/:playlistId
func (h *Handlers) RemoveVideoFromPlaylist(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	playlist, err := h.services.Playlists.RemoveVideo(c.Request.Context(), actorID, c.Param("videoId"), c.Param("playlistId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Video removed from playlist successfully", playlist)
}
