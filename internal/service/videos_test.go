package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/storage"
)

func (suite *ServiceTestSuite) publishInput() PublishVideoInput {
	return PublishVideoInput{
		Title:         "My first video",
		Description:   "A short description",
		VideoPath:     "/tmp/upload/clip.mp4",
		ThumbnailPath: "/tmp/upload/cover.jpg",
		VideoSize:     1024,
	}
}

// create (201, views 0) -> fetch (views 1) -> update by other user (403)
// -> delete by owner -> fetch (404)
func (suite *ServiceTestSuite) TestVideoLifecycle() {
	t := suite.T()
	videos := suite.svc.Videos

	video, err := videos.Publish(suite.ctx, suite.alice.ID, suite.publishInput())
	require.NoError(t, err)
	assert.Equal(t, int64(0), video.Views)
	assert.True(t, video.IsPublished)
	assert.Equal(t, suite.alice.ID, video.OwnerID)
	assert.Equal(t, "https://cdn.test/video/clip.mp4", video.VideoFile)
	assert.Equal(t, "https://cdn.test/thumbnail/cover.jpg", video.Thumbnail)
	assert.Equal(t, 42.5, video.Duration, "duration falls back to the prober")
	assert.Equal(t, []string{video.ID}, suite.index.upserts)

	fetched, err := videos.Get(suite.ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Views)
	require.NotNil(t, fetched.Owner)
	assert.Equal(t, "alice", fetched.Owner.Username)
	assert.Empty(t, fetched.Owner.Email)

	title := "Hijacked title"
	_, err = videos.Update(suite.ctx, suite.bob.ID, video.ID, UpdateVideoInput{Title: &title})
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to update this video")

	err = videos.Delete(suite.ctx, suite.bob.ID, video.ID)
	suite.requireMessage(err, http.StatusForbidden, "You are not authorized to delete this video")

	var stored models.Video
	require.NoError(t, suite.db.First(&stored, "id = ?", video.ID).Error)
	assert.Equal(t, "My first video", stored.Title, "rejected update must not change the video")

	require.NoError(t, videos.Delete(suite.ctx, suite.alice.ID, video.ID))
	assert.Equal(t, []string{video.ID}, suite.index.removes)

	_, err = videos.Get(suite.ctx, video.ID)
	suite.requireMessage(err, http.StatusNotFound, "Video not found")
}

func (suite *ServiceTestSuite) TestPublishValidation() {
	t := suite.T()
	videos := suite.svc.Videos

	cases := []struct {
		name    string
		mutate  func(*PublishVideoInput)
		message string
	}{
		{"missing video", func(in *PublishVideoInput) { in.VideoPath = "" }, "Video file is required"},
		{"missing thumbnail", func(in *PublishVideoInput) { in.ThumbnailPath = "" }, "Thumbnail image is required"},
		{"missing title", func(in *PublishVideoInput) { in.Title = "  " }, "Title and description are required"},
		{"missing description", func(in *PublishVideoInput) { in.Description = "" }, "Title and description are required"},
		{"short title", func(in *PublishVideoInput) { in.Title = "ab" }, "Title must be between 3 and 100 characters"},
		{"long title", func(in *PublishVideoInput) { in.Title = strings.Repeat("x", 101) }, "Title must be between 3 and 100 characters"},
		{"short description", func(in *PublishVideoInput) { in.Description = "no" }, "Description must be between 3 and 500 characters"},
		{"long description", func(in *PublishVideoInput) { in.Description = strings.Repeat("y", 501) }, "Description must be between 3 and 500 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := suite.publishInput()
			tc.mutate(&in)
			_, err := videos.Publish(suite.ctx, suite.alice.ID, in)
			require.Error(t, err)
			assert.Equal(t, tc.message, apperrors.From(err).Message)
			assert.Equal(t, http.StatusBadRequest, apperrors.From(err).Status)
		})
	}

	assert.Empty(t, suite.uploader.calls, "validation failures never reach the uploader")
	var count int64
	suite.db.Model(&models.Video{}).Count(&count)
	assert.Zero(t, count)
}

func (suite *ServiceTestSuite) TestPublishBoundaryLengths() {
	in := suite.publishInput()
	in.Title = strings.Repeat("t", 100)
	in.Description = "abc"
	_, err := suite.svc.Videos.Publish(suite.ctx, suite.alice.ID, in)
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestPublishUploadFailureWritesNothing() {
	t := suite.T()
	suite.uploader.failKind = storage.KindThumbnail

	_, err := suite.svc.Videos.Publish(suite.ctx, suite.alice.ID, suite.publishInput())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.From(err).Status)

	var count int64
	suite.db.Model(&models.Video{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, suite.index.upserts)
}

func (suite *ServiceTestSuite) TestPublishWithDisabledStorage() {
	svc := New(Deps{DB: suite.db})
	_, err := svc.Videos.Publish(suite.ctx, suite.alice.ID, suite.publishInput())
	suite.requireStatus(err, http.StatusServiceUnavailable)
}

func (suite *ServiceTestSuite) TestPublishPrefersBackendDuration() {
	suite.uploader.duration = 12
	video, err := suite.svc.Videos.Publish(suite.ctx, suite.alice.ID, suite.publishInput())
	suite.Require().NoError(err)
	suite.Equal(12.0, video.Duration)
}

func (suite *ServiceTestSuite) TestPublishProbeFailureKeepsZeroDuration() {
	svc := New(Deps{DB: suite.db, Uploader: suite.uploader, Prober: fakeProber{err: errors.New("no ffprobe")}})
	video, err := svc.Videos.Publish(suite.ctx, suite.alice.ID, suite.publishInput())
	suite.Require().NoError(err)
	suite.Zero(video.Duration)
}

func (suite *ServiceTestSuite) TestInvalidVideoIDIsRejectedBeforeLookup() {
	videos := suite.svc.Videos
	title := "New title"

	_, err := videos.Get(suite.ctx, "not-an-id")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")
	_, err = videos.Update(suite.ctx, suite.alice.ID, "123", UpdateVideoInput{Title: &title})
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")
	err = videos.Delete(suite.ctx, suite.alice.ID, "")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")
	_, err = videos.TogglePublish(suite.ctx, suite.alice.ID, "x")
	suite.requireMessage(err, http.StatusBadRequest, "Invalid videoId")

	_, err = videos.Get(suite.ctx, missingID)
	suite.requireMessage(err, http.StatusNotFound, "Video not found")
}

func (suite *ServiceTestSuite) TestUpdateVideo() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "original", true, time.Now().UTC())

	short := "no"
	_, err := suite.svc.Videos.Update(suite.ctx, suite.alice.ID, video.ID, UpdateVideoInput{Title: &short})
	suite.requireMessage(err, http.StatusBadRequest, "Title must be between 3 and 100 characters")

	title := "  Renamed  "
	updated, err := suite.svc.Videos.Update(suite.ctx, suite.alice.ID, video.ID, UpdateVideoInput{
		Title:         &title,
		ThumbnailPath: "/tmp/upload/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "about original", updated.Description)
	assert.Equal(t, "https://cdn.test/thumbnail/new.png", updated.Thumbnail)
	assert.Equal(t, []string{string(storage.KindThumbnail)}, suite.uploader.calls)
	assert.Contains(t, suite.index.upserts, video.ID)
}

func (suite *ServiceTestSuite) TestTogglePublish() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "draft", true, time.Now().UTC())

	_, err := suite.svc.Videos.TogglePublish(suite.ctx, suite.bob.ID, video.ID)
	suite.requireStatus(err, http.StatusForbidden)

	toggled, err := suite.svc.Videos.TogglePublish(suite.ctx, suite.alice.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	toggled, err = suite.svc.Videos.TogglePublish(suite.ctx, suite.alice.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPublished)
}

func (suite *ServiceTestSuite) TestConcurrentViewsAreAllCounted() {
	video := suite.createVideo(suite.alice, "popular", true, time.Now().UTC())

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := suite.svc.Videos.Get(context.Background(), video.ID)
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		suite.Require().NoError(<-errs)
	}

	var stored models.Video
	suite.Require().NoError(suite.db.First(&stored, "id = ?", video.ID).Error)
	suite.Equal(int64(n), stored.Views)
}

func (suite *ServiceTestSuite) TestListVideos() {
	t := suite.T()
	base := time.Now().UTC().Add(-time.Hour)
	suite.createVideo(suite.alice, "Go Concurrency", true, base)
	suite.createVideo(suite.alice, "Cooking pasta", true, base.Add(time.Minute))
	suite.createVideo(suite.bob, "go modules explained", true, base.Add(2*time.Minute))
	suite.createVideo(suite.bob, "Unlisted go draft", false, base.Add(3*time.Minute))

	page, err := suite.svc.Videos.List(suite.ctx, ListVideosParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "unpublished videos are never listed")
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "go modules explained", page.Items[0].Title, "default sort is newest first")
	require.NotNil(t, page.Items[0].Owner)
	assert.Equal(t, "bob", page.Items[0].Owner.Username)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{Query: "GO"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{Query: "pasta", UserID: suite.alice.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Cooking pasta", page.Items[0].Title)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{SortBy: "title", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "Cooking pasta", page.Items[0].Title)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{PageRequest: PageRequest{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{PageRequest: PageRequest{Page: 9, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	page, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{Query: "100%"})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "LIKE wildcards in the query are literal")
}

func (suite *ServiceTestSuite) TestListVideosRejectsBadParams() {
	_, err := suite.svc.Videos.List(suite.ctx, ListVideosParams{SortBy: "password"})
	suite.requireMessage(err, http.StatusBadRequest, "Invalid sortBy")

	_, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{SortType: "sideways"})
	suite.requireStatus(err, http.StatusBadRequest)

	_, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{UserID: "nope"})
	suite.requireMessage(err, http.StatusBadRequest, "Invalid userId")

	_, err = suite.svc.Videos.List(suite.ctx, ListVideosParams{UserID: missingID})
	suite.requireMessage(err, http.StatusNotFound, "User not found")
}

func (suite *ServiceTestSuite) TestDeleteVideoCleansRelations() {
	t := suite.T()
	video := suite.createVideo(suite.alice, "doomed", true, time.Now().UTC())

	playlist, err := suite.svc.Playlists.Create(suite.ctx, suite.alice.ID, "Favorites", "best of")
	require.NoError(t, err)
	_, err = suite.svc.Playlists.AddVideo(suite.ctx, suite.alice.ID, video.ID, playlist.ID)
	require.NoError(t, err)
	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.bob.ID, video.ID)
	require.NoError(t, err)
	comment, err := suite.svc.Comments.Add(suite.ctx, suite.alice.ID, video.ID, "first!")
	require.NoError(t, err)
	_, err = suite.svc.Likes.ToggleCommentLike(suite.ctx, suite.bob.ID, comment.ID)
	require.NoError(t, err)

	other := suite.createVideo(suite.alice, "survivor", true, time.Now().UTC())
	_, err = suite.svc.Likes.ToggleVideoLike(suite.ctx, suite.alice.ID, other.ID)
	require.NoError(t, err)

	suite.stats.invalidated = nil
	require.NoError(t, suite.svc.Videos.Delete(suite.ctx, suite.alice.ID, video.ID))

	var entries, bobLikes, remaining int64
	suite.db.Model(&models.PlaylistVideo{}).Count(&entries)
	suite.db.Model(&models.Like{}).Where("liked_by_id = ?", suite.bob.ID).Count(&bobLikes)
	suite.db.Model(&models.Like{}).Count(&remaining)
	assert.Zero(t, entries)
	assert.Zero(t, bobLikes)
	assert.Equal(t, int64(1), remaining)
	assert.Contains(t, suite.stats.invalidated, suite.alice.ID)
	assert.Contains(t, suite.stats.invalidated, suite.bob.ID)

	suite.stats.entries = map[string]ChannelStats{}
	stats, err := suite.svc.Dashboard.Stats(suite.ctx, suite.bob.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalLikes)
}

func (suite *ServiceTestSuite) TestChannelVideosIncludesUnpublished() {
	base := time.Now().UTC()
	suite.createVideo(suite.alice, "public one", true, base)
	suite.createVideo(suite.alice, "private one", false, base.Add(time.Second))
	suite.createVideo(suite.bob, "not mine", true, base)

	videos, err := suite.svc.Dashboard.Videos(suite.ctx, suite.alice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(videos, 2)
	suite.Equal("private one", videos[0].Title)
}
