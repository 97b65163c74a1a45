package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

type likeToggle func(ctx context.Context, actorID, targetID string) (*service.LikeResult, error)

// toggleLike runs toggle on the :param target and reports "<noun> liked" or
// "<noun> unliked".
func (h *Handlers) toggleLike(c *gin.Context, param, noun string, toggle likeToggle) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	res, err := toggle(c.Request.Context(), actorID, c.Param(param))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	message := noun + " unliked successfully"
	if res.Liked {
		message = noun + " liked successfully"
	}
	util.RespondOK(c, message, res)
}

// ToggleVideoLike likes or unlikes a video
// POST /api/v1/likes/toggle/v/:videoId
func (h *Handlers) ToggleVideoLike(c *gin.Context) {
	h.toggleLike(c, "videoId", "Video", h.services.Likes.ToggleVideoLike)
}

// ToggleCommentLike likes or unlikes a comment
// POST /api/v1/likes/toggle/c/:commentId
func (h *Handlers) ToggleCommentLike(c *gin.Context) {
	h.toggleLike(c, "commentId", "Comment", h.services.Likes.ToggleCommentLike)
}

// ToggleTweetLike likes or unlikes a tweet
// POST /api/v1/likes/toggle/t/:tweetId
func (h *Handlers) ToggleTweetLike(c *gin.Context) {
	h.toggleLike(c, "tweetId", "Tweet", h.services.Likes.ToggleTweetLike)
}

// GetLikedVideos lists the videos the caller liked
// GET /api/v1/likes/videos
func (h *Handlers) GetLikedVideos(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	videos, err := h.services.Likes.LikedVideos(c.Request.Context(), actorID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, listMessage(len(videos), "No liked videos found", "Liked videos fetched successfully"), videos)
}

// ToggleSubscription subscribes to or unsubscribes from a channel
// POST /api/v1/subscriptions/c/:channelId
func (h *Handlers) ToggleSubscription(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	res, err := h.services.Subscriptions.Toggle(c.Request.Context(), actorID, c.Param("channelId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	message := "Unsubscribed successfully"
	if res.Subscribed {
		message = "Subscribed successfully"
	}
	util.RespondOK(c, message, res)
}

// GetChannelSubscribers lists a channel's subscribers
// GET /api/v1/subscriptions/c/:channelId
func (h *Handlers) GetChannelSubscribers(c *gin.Context) {
	users, err := h.services.Subscriptions.Subscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Subscribers fetched successfully", users)
}

// GetSubscribedChannels lists the channels a user subscribes to
// GET /api/v1/subscriptions/u/:subscriberId
func (h *Handlers) GetSubscribedChannels(c *gin.Context) {
	users, err := h.services.Subscriptions.SubscribedChannels(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Subscribed channels fetched successfully", users)
}

// GetChannelStats returns the caller's dashboard numbers
// GET /api/v1/dashboard/stats
func (h *Handlers) GetChannelStats(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	stats, err := h.services.Dashboard.Stats(c.Request.Context(), actorID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Channel stats fetched successfully", stats)
}

// GetChannelVideos returns all of the caller's videos
// GET /api/v1/dashboard/videos
func (h *Handlers) GetChannelVideos(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	videos, err := h.services.Dashboard.Videos(c.Request.Context(), actorID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Channel videos fetched successfully", videos)
}
