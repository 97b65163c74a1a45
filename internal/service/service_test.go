package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/database"
	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/storage"
	"gorm.io/gorm"
)

const missingID = "3e1f0c2a-8a43-4c55-9d55-0a1b2c3d4e5f"

type fakeUploader struct {
	mu       sync.Mutex
	calls    []string
	failKind storage.MediaKind
	duration float64
}

func (f *fakeUploader) Backend() string { return "fake" }

func (f *fakeUploader) Upload(ctx context.Context, localPath string, kind storage.MediaKind) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(kind))
	if kind == f.failKind {
		return nil, errors.New("bucket unreachable")
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("upload without deadline")
	}
	res := &storage.UploadResult{
		Key: string(kind) + "/" + filepath.Base(localPath),
		URL: "https://cdn.test/" + string(kind) + "/" + filepath.Base(localPath),
	}
	if kind == storage.KindVideo {
		res.Duration = f.duration
	}
	return res, nil
}

type fakeProber struct {
	duration float64
	err      error
}

func (f fakeProber) Duration(context.Context, string) (float64, error) {
	return f.duration, f.err
}

type fakeIndex struct {
	upserts []string
	removes []string
}

func (f *fakeIndex) Upsert(_ context.Context, v *models.Video) { f.upserts = append(f.upserts, v.ID) }
func (f *fakeIndex) Remove(_ context.Context, id string)       { f.removes = append(f.removes, id) }

type fakeStats struct {
	entries     map[string]ChannelStats
	invalidated []string
}

func (f *fakeStats) Load(_ context.Context, userID string, dst interface{}) bool {
	v, ok := f.entries[userID]
	if ok {
		*(dst.(*ChannelStats)) = v
	}
	return ok
}

func (f *fakeStats) Store(_ context.Context, userID string, v interface{}) {
	f.entries[userID] = *(v.(*ChannelStats))
}

func (f *fakeStats) Invalidate(_ context.Context, userIDs ...string) {
	for _, id := range userIDs {
		delete(f.entries, id)
		f.invalidated = append(f.invalidated, id)
	}
}

// ServiceTestSuite runs every service against a fresh in-memory database.
type ServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	svc      *Services
	uploader *fakeUploader
	index    *fakeIndex
	stats    *fakeStats
	ctx      context.Context

	alice *models.User
	bob   *models.User
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) SetupTest() {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), database.MigrateDB(db))
	suite.db = db

	suite.uploader = &fakeUploader{}
	suite.index = &fakeIndex{}
	suite.stats = &fakeStats{entries: map[string]ChannelStats{}}
	suite.svc = New(Deps{
		DB:            db,
		Uploader:      suite.uploader,
		Prober:        fakeProber{duration: 42.5},
		Index:         suite.index,
		Stats:         suite.stats,
		UploadTimeout: 5 * time.Second,
	})
	suite.ctx = context.Background()

	suite.alice = suite.createUser("alice")
	suite.bob = suite.createUser("bob")
}

func (suite *ServiceTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *ServiceTestSuite) createUser(name string) *models.User {
	u := &models.User{Username: name, Email: name + "@example.com", FullName: name}
	require.NoError(suite.T(), suite.db.Create(u).Error)
	return u
}

// createVideo inserts a video directly, bypassing uploads.
func (suite *ServiceTestSuite) createVideo(owner *models.User, title string, published bool, created time.Time) *models.Video {
	v := &models.Video{
		OwnerID:     owner.ID,
		Title:       title,
		Description: "about " + title,
		VideoFile:   "https://cdn.test/video/" + title,
		Thumbnail:   "https://cdn.test/thumbnail/" + title,
		IsPublished: published,
		CreatedAt:   created,
	}
	require.NoError(suite.T(), suite.db.Create(v).Error)
	return v
}

func (suite *ServiceTestSuite) requireStatus(err error, status int) {
	suite.T().Helper()
	require.Error(suite.T(), err)
	require.Equal(suite.T(), status, apperrors.From(err).Status, "error: %v", err)
}

func (suite *ServiceTestSuite) requireMessage(err error, status int, message string) {
	suite.T().Helper()
	suite.requireStatus(err, status)
	require.Equal(suite.T(), message, apperrors.From(err).Message)
}
