package storage

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaKind selects the key prefix and metadata of an uploaded object.
type MediaKind string

const (
	KindVideo     MediaKind = "video"
	KindThumbnail MediaKind = "thumbnail"
)

// UploadResult contains the result of a blob upload
type UploadResult struct {
	Key         string  `json:"key"`
	URL         string  `json:"url"`
	Bucket      string  `json:"bucket"`
	Size        int64   `json:"size"`
	ContentType string  `json:"contentType"`
	// Duration in seconds when the backend reports one; zero otherwise.
	Duration float64 `json:"duration,omitempty"`
}

// Uploader moves a local file to external blob storage and returns its
// public URL. Implementations must honour ctx cancellation and never retry.
type Uploader interface {
	Upload(ctx context.Context, localPath string, kind MediaKind) (*UploadResult, error)
	Backend() string
}

var (
	_ Uploader = (*S3Uploader)(nil)
	_ Uploader = (*MinioUploader)(nil)
	_ Uploader = Disabled{}
)

// objectKey builds {prefix}/{year}/{month}/{uuid}{ext}
func objectKey(kind MediaKind, localPath string, now time.Time) string {
	prefix := "videos"
	if kind == KindThumbnail {
		prefix = "thumbnails"
	}
	ext := strings.ToLower(filepath.Ext(localPath))
	return prefix + "/" + now.UTC().Format("2006/01") + "/" + uuid.New().String() + ext
}

// getContentType returns the appropriate MIME type for file extensions
func getContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".avi":
		return "video/x-msvideo"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func publicURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}
