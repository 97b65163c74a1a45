package storage

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		extension string
		expected  string
	}{
		{".mp4", "video/mp4"},
		{".MP4", "video/mp4"},
		{".m4v", "video/mp4"},
		{".mov", "video/quicktime"},
		{".webm", "video/webm"},
		{".mkv", "video/x-matroska"},
		{".jpg", "image/jpeg"},
		{".JPEG", "image/jpeg"},
		{".png", "image/png"},
		{".webp", "image/webp"},
		{".unknown", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.extension, func(t *testing.T) {
			assert.Equal(t, tt.expected, getContentType(tt.extension))
		})
	}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^videos/2026/03/[0-9a-f-]{36}\.mp4$`)
	assert.Regexp(t, pattern, objectKey(KindVideo, "/tmp/up/Clip.MP4", now))

	key := objectKey(KindThumbnail, "/tmp/up/thumb.png", now)
	assert.True(t, strings.HasPrefix(key, "thumbnails/2026/03/"))
	assert.NotEqual(t, key, objectKey(KindThumbnail, "/tmp/up/thumb.png", now))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/videos/a.mp4", publicURL("https://cdn.example.com/", "videos/a.mp4"))
	assert.Equal(t, "https://cdn.example.com/videos/a.mp4", publicURL("https://cdn.example.com", "videos/a.mp4"))
}

func TestDisabledUploader(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), "x.mp4", KindVideo)
	require.Error(t, err)
	assert.True(t, apierrors.HasStatus(err, http.StatusServiceUnavailable))
}

type stubUploader struct {
	err error
}

func (s stubUploader) Backend() string { return "stub" }

func (s stubUploader) Upload(_ context.Context, localPath string, kind MediaKind) (*UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &UploadResult{Key: string(kind) + "/" + filepath.Base(localPath)}, nil
}

func TestInstrumentPassesThrough(t *testing.T) {
	logger.InitializeNop()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	u := Instrument(stubUploader{})
	assert.Equal(t, "stub", u.Backend())
	res, err := u.Upload(context.Background(), path, KindVideo)
	require.NoError(t, err)
	assert.Equal(t, "video/clip.mp4", res.Key)

	boom := errors.New("boom")
	_, err = Instrument(stubUploader{err: boom}).Upload(context.Background(), path, KindVideo)
	assert.ErrorIs(t, err, boom)
}
