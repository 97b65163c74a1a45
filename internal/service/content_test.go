package service

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
)

func (suite *ServiceTestSuite) TestComments() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "talked about", true, time.Now().UTC())
	comments := suite.svc.Comments

	_, err := comments.Add(suite.ctx, suite.bob.ID, video.ID, "   ")
	suite.requireMessage(err, http.StatusBadRequest, "Content is required")
	_, err = comments.Add(suite.ctx, suite.bob.ID, "oops", "hi")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")
	_, err = comments.Add(suite.ctx, suite.bob.ID, missingID, "hi")
	suite.requireMessage(err, http.StatusNotFound, "Video not found")

	for i := 0; i < 3; i++ {
		_, err := comments.Add(suite.ctx, suite.bob.ID, video.ID, "comment")
		require.NoError(t, err)
	}
	comment, err := comments.Add(suite.ctx, suite.bob.ID, video.ID, "  latest  ")
	require.NoError(t, err)
	assert.Equal(t, "latest", comment.Content)

	page, err := comments.List(suite.ctx, video.ID, PageRequest{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 3)
	require.NotNil(t, page.Items[0].Owner)
	assert.Equal(t, "bob", page.Items[0].Owner.Username)

	_, err = comments.Update(suite.ctx, suite.alice.ID, comment.ID, "edited")
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to update this comment")
	err = comments.Delete(suite.ctx, suite.alice.ID, comment.ID)
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to delete this comment")

	var stored models.Comment
	require.NoError(t, suite.db.First(&stored, "id = ?", comment.ID).Error)
	assert.Equal(t, "latest", stored.Content)

	updated, err := comments.Update(suite.ctx, suite.bob.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = suite.svc.Likes.ToggleCommentLike(suite.ctx, suite.alice.ID, comment.ID)
	require.NoError(t, err)
	require.NoError(t, comments.Delete(suite.ctx, suite.bob.ID, comment.ID))

	_, err = comments.Update(suite.ctx, suite.bob.ID, comment.ID, "again")
	suite.requireMessage(err, http.StatusNotFound, "Comment not found")
	var likes int64
	suite.db.Model(&models.Like{}).Count(&likes)
	assert.Zero(t, likes)
}

func (suite *ServiceTestSuite) TestTweets() {
	t := suite.T()
	tweets := suite.svc.Tweets

	_, err := tweets.Create(suite.ctx, suite.alice.ID, "")
	suite.requireMessage(err, http.StatusBadRequest, "Content is required")

	list, err := tweets.UserTweets(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	tweet, err := tweets.Create(suite.ctx, suite.alice.ID, "first post")
	require.NoError(t, err)
	assert.Equal(t, suite.alice.ID, tweet.OwnerID)

	list, err = tweets.UserTweets(suite.ctx, suite.alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = tweets.UserTweets(suite.ctx, missingID)
	suite.requireMessage(err, http.StatusNotFound, "User not found")
	_, err = tweets.UserTweets(suite.ctx, "nobody")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid userId")

	_, err = tweets.Update(suite.ctx, suite.bob.ID, tweet.ID, "mine now")
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to update this tweet")
	err = tweets.Delete(suite.ctx, suite.bob.ID, tweet.ID)
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to delete this tweet")

	updated, err := tweets.Update(suite.ctx, suite.alice.ID, tweet.ID, "edited post")
	require.NoError(t, err)
	assert.Equal(t, "edited post", updated.Content)

	require.NoError(t, tweets.Delete(suite.ctx, suite.alice.ID, tweet.ID))
	err = tweets.Delete(suite.ctx, suite.alice.ID, tweet.ID)
	suite.requireMessage(err, http.StatusNotFound, "Tweet not found")
	err = tweets.Delete(suite.ctx, suite.alice.ID, "tweet")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid tweetId")
}

// add twice -> "already in playlist"; remove -> ok; remove again -> "not in playlist"
func (suite *ServiceTestSuite) TestPlaylistMembershipScenario() {
	t := suite.T()
	playlists := suite.svc.Playlists
	base := time.Now().UTC()
	v1 := suite.createVideo(suite.alice, "one", true, base)
	v2 := suite.createVideo(suite.bob, "two", true, base)

	playlist, err := playlists.Create(suite.ctx, suite.alice.ID, "Mix", "weekend mix")
	require.NoError(t, err)
	assert.NotNil(t, playlist.Videos)

	_, err = playlists.AddVideo(suite.ctx, suite.alice.ID, v2.ID, playlist.ID)
	require.NoError(t, err)
	got, err := playlists.AddVideo(suite.ctx, suite.alice.ID, v1.ID, playlist.ID)
	require.NoError(t, err)
	require.Len(t, got.Videos, 2)
	assert.Equal(t, v2.ID, got.Videos[0].ID, "videos keep insertion order")
	assert.Equal(t, v1.ID, got.Videos[1].ID)

	_, err = playlists.AddVideo(suite.ctx, suite.alice.ID, v1.ID, playlist.ID)
	suite.requireMessage(err, http.StatusBadRequest, "Video already in playlist")

	got, err = playlists.RemoveVideo(suite.ctx, suite.alice.ID, v1.ID, playlist.ID)
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)

	_, err = playlists.RemoveVideo(suite.ctx, suite.alice.ID, v1.ID, playlist.ID)
	suite.requireMessage(err, http.StatusBadRequest, "Video not in playlist")

	// Re-adding goes to the end.
	got, err = playlists.AddVideo(suite.ctx, suite.alice.ID, v1.ID, playlist.ID)
	require.NoError(t, err)
	require.Len(t, got.Videos, 2)
	assert.Equal(t, v1.ID, got.Videos[1].ID)
}

func (suite *ServiceTestSuite) TestPlaylistPermissionsAndValidation() {
	t := suite.T()
	playlists := suite.svc.Playlists
	video := suite.createVideo(suite.alice, "one", true, time.Now().UTC())

	_, err := playlists.Create(suite.ctx, suite.alice.ID, "Mix", "")
	suite.requireMessage(err, http.StatusBadRequest, "Name and description are required")

	playlist, err := playlists.Create(suite.ctx, suite.alice.ID, "Mix", "weekend mix")
	require.NoError(t, err)

	_, err = playlists.AddVideo(suite.ctx, suite.bob.ID, video.ID, playlist.ID)
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to modify this playlist")
	_, err = playlists.AddVideo(suite.ctx, suite.alice.ID, missingID, playlist.ID)
	suite.requireMessage(err, http.StatusNotFound, "Video not found")
	_, err = playlists.AddVideo(suite.ctx, suite.alice.ID, video.ID, "nope")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid playlistId")
	_, err = playlists.RemoveVideo(suite.ctx, suite.alice.ID, "nope", playlist.ID)
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")

	name := "Stolen"
	_, err = playlists.Update(suite.ctx, suite.bob.ID, playlist.ID, UpdatePlaylistInput{Name: &name})
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to update this playlist")
	err = playlists.Delete(suite.ctx, suite.bob.ID, playlist.ID)
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to delete this playlist")

	got, err := playlists.Get(suite.ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mix", got.Name)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "alice", got.Owner.Username)

	name = "Renamed"
	got, err = playlists.Update(suite.ctx, suite.alice.ID, playlist.ID, UpdatePlaylistInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "weekend mix", got.Description)

	_, err = playlists.Update(suite.ctx, suite.alice.ID, playlist.ID, UpdatePlaylistInput{})
	suite.requireStatus(err, http.StatusBadRequest)

	_, err = playlists.AddVideo(suite.ctx, suite.alice.ID, video.ID, playlist.ID)
	require.NoError(t, err)
	require.NoError(t, playlists.Delete(suite.ctx, suite.alice.ID, playlist.ID))

	_, err = playlists.Get(suite.ctx, playlist.ID)
	suite.requireMessage(err, http.StatusNotFound, "Playlist not found")
	var entries int64
	suite.db.Model(&models.PlaylistVideo{}).Count(&entries)
	assert.Zero(t, entries)
}

func (suite *ServiceTestSuite) TestUserPlaylists() {
	t := suite.T()
	playlists := suite.svc.Playlists

	list, err := playlists.UserPlaylists(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	video := suite.createVideo(suite.alice, "one", true, time.Now().UTC())
	p, err := playlists.Create(suite.ctx, suite.bob.ID, "Watch later", "queue")
	require.NoError(t, err)
	_, err = playlists.AddVideo(suite.ctx, suite.bob.ID, video.ID, p.ID)
	require.NoError(t, err)

	list, err = playlists.UserPlaylists(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Videos, 1)
	assert.Equal(t, video.ID, list[0].Videos[0].ID)

	_, err = playlists.UserPlaylists(suite.ctx, missingID)
	suite.requireMessage(err, http.StatusNotFound, "User not found")
}
