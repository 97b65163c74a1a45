package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

// CreateTweet posts a tweet
// POST /api/v1/tweets
func (h *Handlers) CreateTweet(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	tweet, err := h.services.Tweets.Create(c.Request.Context(), actorID, req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondCreated(c, "Tweet created successfully", tweet)
}

// GetUserTweets lists a user's tweets
// GET /api/v1/tweets/user/:userId
func (h *Handlers) GetUserTweets(c *gin.Context) {
	tweets, err := h.services.Tweets.UserTweets(c.Request.Context(), c.Param("userId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, listMessage(len(tweets), "No tweets found for this user", "User tweets fetched successfully"), tweets)
}

// UpdateTweet edits a tweet
// PATCH /api/v1/tweets/:tweetId
func (h *Handlers) UpdateTweet(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}

	tweet, err := h.services.Tweets.Update(c.Request.Context(), actorID, c.Param("tweetId"), req.Content)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Tweet updated successfully", tweet)
}

// DeleteTweet deletes a tweet
// DELETE /api/v1/tweets/:tweetId
func (h *Handlers) DeleteTweet(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	if err := h.services.Tweets.Delete(c.Request.Context(), actorID, c.Param("tweetId")); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Tweet deleted successfully", nil)
}
