package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

// GetVideoComments lists a video's comments, newest first
// GET /api/v1/comments/:videoId
func (h *Handlers) GetVideoComments(c *gin.Context) {
	page, err := h.services.Comments.List(c.Request.Context(), c.Param("videoId"), pageRequest(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Comments fetched successfully", page)
}

// AddComment comments on a video
// POST /api/v1/comments/:videoId
func (h *Handlers) AddComment(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comments.Add(c.Request.Context(), actorID, c.Param("videoId"), req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondCreated(c, "Comment added successfully", comment)
}

// UpdateComment edits a comment
// PATCH /api/v1/comments/c/:commentId
func (h *Handlers) UpdateComment(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), actorID, c.Param("commentId"), req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Comment updated successfully", comment)
}

// DeleteComment deletes a comment
// DELETE /api/v1/comments/c/:commentId
func (h *Handlers) DeleteComment(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	if err := h.services.Comments.Delete(c.Request.Context(), actorID, c.Param("commentId")); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Comment deleted successfully", nil)
}
