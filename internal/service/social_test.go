package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
)

func (suite *ServiceTestSuite) TestToggleCommentLikeTwice() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "liked", true, time.Now().UTC())
	comment, err := suite.svc.Comments.Add(suite.ctx, suite.bob.ID, video.ID, "nice")
	require.NoError(t, err)

	res, err := suite.svc.Likes.ToggleCommentLike(suite.ctx, suite.alice.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	res, err = suite.svc.Likes.ToggleCommentLike(suite.ctx, suite.alice.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)

	var count int64
	suite.db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count, "toggling twice restores the original state")
}

func (suite *ServiceTestSuite) TestToggleLikeTargets() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "target", true, time.Now().UTC())
	tweet, err := suite.svc.Tweets.Create(suite.ctx, suite.alice.ID, "hello")
	require.NoError(t, err)

	res, err := suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	res, err = suite.svc.Likes.ToggleTweetLike(suite.ctx, suite.bob.ID, tweet.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	var like models.Like
	require.NoError(t, suite.db.Where("tweet_id = ?", tweet.ID).First(&like).Error)
	kind, id, err := like.Target()
	require.NoError(t, err)
	assert.Equal(t, models.LikeTargetTweet, kind)
	assert.Equal(t, tweet.ID, id)

	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, "bad")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")
	_, err = suite.svc.Likes.ToggleCommentLike(suite.ctx, suite.bob.ID, "bad")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid commentId")
	_, err = suite.svc.Likes.ToggleTweetLike(suite.ctx, suite.bob.ID, missingID)
	suite.requireMessage(err, http.StatusNotFound, "Tweet not found")

	assert.Contains(t, suite.stats.invalidated, suite.bob.ID)
}

func (suite *ServiceTestSuite) TestConcurrentLikeTogglesStayConsistent() {
	video := suite.createVideo(suite.alice, "contested", true, time.Now().UTC())

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.svc.Likes.ToggleVideoLike(context.Background(), suite.bob.ID, video.ID)
			suite.NoError(err)
		}()
	}
	wg.Wait()

	var count int64
	suite.db.Model(&models.Like{}).Where("video_id = ?", video.ID).Count(&count)
	suite.LessOrEqual(count, int64(1), "concurrent toggles never duplicate a like")
}

func (suite *ServiceTestSuite) TestLikedVideos() {
	t := suite.T()
	first := suite.createVideo(suite.alice, "first", true, time.Now().UTC())
	second := suite.createVideo(suite.alice, "second", true, time.Now().UTC())

	videos, err := suite.svc.Likes.LikedVideos(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)

	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, first.ID)
	require.NoError(t, err)
	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, second.ID)
	require.NoError(t, err)

	videos, err = suite.svc.Likes.LikedVideos(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	require.NotNil(t, videos[0].Owner)
	assert.Equal(t, "alice", videos[0].Owner.Username)
}

func (suite *ServiceTestSuite) TestLikedVideosHidesOthersUnpublished() {
	t := suite.T()
	hidden := suite.createVideo(suite.alice, "hidden later", true, time.Now().UTC())
	own := suite.createVideo(suite.bob, "own draft", false, time.Now().UTC())

	_, err := suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, hidden.ID)
	require.NoError(t, err)
	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, own.ID)
	require.NoError(t, err)
	_, err = suite.svc.Videos.TogglePublish(suite.ctx, suite.alice.ID, hidden.ID)
	require.NoError(t, err)

	videos, err := suite.svc.Likes.LikedVideos(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, own.ID, videos[0].ID)

	videos, err = suite.svc.Likes.LikedVideos(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

// subscribe U1 -> U2; self -> 400; U2's subscribers contain U1
func (suite *ServiceTestSuite) TestSubscriptionScenario() {
	t := suite.T()
	subs := suite.svc.Subscriptions

	res, err := subs.Toggle(suite.ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	_, err = subs.Toggle(suite.ctx, suite.alice.ID, suite.alice.ID)
	suite.requireMessage(err, http.StatusBadRequest, "You cannot subscribe to yourself")

	subscribers, err := subs.Subscribers(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, suite.alice.ID, subscribers[0].ID)
	assert.Equal(t, "alice", subscribers[0].Username)

	channels, err := subs.SubscribedChannels(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, suite.bob.ID, channels[0].ID)
	assert.Contains(t, suite.stats.invalidated, suite.bob.ID)

	res, err = subs.Toggle(suite.ctx, suite.alice.ID, suite.bob.ID)
	require.NoError(t, err)
	assert.False(t, res.Subscribed)

	subscribers, err = subs.Subscribers(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, subscribers)
}

func (suite *ServiceTestSuite) TestSubscriptionErrors() {
	subs := suite.svc.Subscriptions

	_, err := subs.Toggle(suite.ctx, suite.alice.ID, "channel")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid channelId")
	_, err = subs.Toggle(suite.ctx, suite.alice.ID, missingID)
	suite.requireMessage(err, http.StatusNotFound, "Channel not found")
	_, err = subs.Subscribers(suite.ctx, missingID)
	suite.requireMessage(err, http.StatusNotFound, "Channel not found")
	_, err = subs.SubscribedChannels(suite.ctx, "??")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid subscriberId")
	_, err = subs.SubscribedChannels(suite.ctx, missingID)
	suite.requireMessage(err, http.StatusNotFound, "Subscriber not found")
}

func (suite *ServiceTestSuite) TestDashboardStats() {
	t := suite.T()

	stats, err := suite.svc.Dashboard.Stats(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{}, *stats, "zero videos gives zero views")

	// Reset the cache entry the first call stored.
	suite.stats.Invalidate(suite.ctx, suite.alice.ID)

	v1 := suite.createVideo(suite.alice, "one", true, time.Now().UTC())
	suite.createVideo(suite.alice, "two", false, time.Now().UTC())
	suite.db.Model(&models.Video{}).Where("id = ?", v1.ID).Update("views", 7)

	carol := suite.createUser("carol")
	_, err = suite.svc.Subscriptions.Toggle(suite.ctx, suite.bob.ID, suite.alice.ID)
	require.NoError(t, err)
	_, err = suite.svc.Subscriptions.Toggle(suite.ctx, carol.ID, suite.alice.ID)
	require.NoError(t, err)
	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.alice.ID, v1.ID)
	require.NoError(t, err)

	stats, err = suite.svc.Dashboard.Stats(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{TotalVideos: 2, TotalSubscribers: 2, TotalViews: 7, TotalLikes: 1}, *stats)
	assert.Equal(t, *stats, suite.stats.entries[suite.alice.ID])
}

func (suite *ServiceTestSuite) TestDashboardStatsServedFromCache() {
	cached := ChannelStats{TotalVideos: 99}
	suite.stats.entries[suite.alice.ID] = cached

	stats, err := suite.svc.Dashboard.Stats(suite.ctx, suite.alice.ID)
	suite.Require().NoError(err)
	suite.Equal(cached, *stats)
}
