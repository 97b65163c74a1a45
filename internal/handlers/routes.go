package handlers

import "github.com/gin-gonic/gin"

// RouteMiddleware are the per-route middlewares RegisterRoutes mounts.
// Nil entries are skipped.
type RouteMiddleware struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	UploadLimit  gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterRoutes mounts the API under api (normally /api/v1).
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, mw RouteMiddleware) {
	authed := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return chain(append([]gin.HandlerFunc{mw.Auth}, handlers...)...)
	}
	public := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return chain(mw.OptionalAuth, handler)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", public(h.GetAllVideos)...)
		videos.POST("", authed(mw.UploadLimit, h.PublishVideo)...)
		videos.GET("/:videoId", authed(h.GetVideoByID)...)
		videos.PATCH("/:videoId", authed(mw.UploadLimit, h.UpdateVideo)...)
		videos.DELETE("/:videoId", authed(h.DeleteVideo)...)
		videos.PATCH("/toggle/publish/:videoId", authed(h.TogglePublishStatus)...)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:videoId", public(h.GetVideoComments)...)
		comments.POST("/:videoId", authed(h.AddComment)...)
		comments.PATCH("/c/:commentId", authed(h.UpdateComment)...)
		comments.DELETE("/c/:commentId", authed(h.DeleteComment)...)
	}

	tweets := api.Group("/tweets")
	{
		tweets.POST("", authed(h.CreateTweet)...)
		tweets.GET("/user/:userId", public(h.GetUserTweets)...)
		tweets.PATCH("/:tweetId", authed(h.UpdateTweet)...)
		tweets.DELETE("/:tweetId", authed(h.DeleteTweet)...)
	}

	playlists := api.Group("/playlists")
	{
		playlists.POST("", authed(h.CreatePlaylist)...)
		playlists.GET("/user/:userId", public(h.GetUserPlaylists)...)
		playlists.GET("/:playlistId", public(h.GetPlaylist)...)
		playlists.PATCH("/:playlistId", authed(h.UpdatePlaylist)...)
		playlists.DELETE("/:playlistId", authed(h.DeletePlaylist)...)
		playlists.PATCH("/add/:videoId/:playlistId", authed(h.AddVideoToPlaylist)...)
		playlists.PATCH("/remove/:videoId/:playlistId", authed(h.RemoveVideoFromPlaylist)...)
	}

	likes := api.Group("/likes")
	{
		likes.POST("/toggle/v/:videoId", authed(h.ToggleVideoLike)...)
		likes.POST("/toggle/c/:commentId", authed(h.ToggleCommentLike)...)
		likes.POST("/toggle/t/:tweetId", authed(h.ToggleTweetLike)...)
		likes.GET("/videos", authed(h.GetLikedVideos)...)
	}

	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("/c/:channelId", authed(h.ToggleSubscription)...)
		subscriptions.GET("/c/:channelId", public(h.GetChannelSubscribers)...)
		subscriptions.GET("/u/:subscriberId", public(h.GetSubscribedChannels)...)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/stats", authed(h.GetChannelStats)...)
		dashboard.GET("/videos", authed(h.GetChannelVideos)...)
	}
}
