package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/config"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"go.uber.org/zap"
)

// MinioUploader uploads media to a MinIO server.
type MinioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioUploader connects to MinIO and creates the bucket if needed.
func NewMinioUploader(ctx context.Context, cfg config.StorageConfig) (*MinioUploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio storage: AWS_BUCKET is required")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Log.Info("Created MinIO bucket", zap.String("bucket", cfg.Bucket))
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.Bucket)
	}

	return &MinioUploader{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (u *MinioUploader) Backend() string { return "minio" }

// CheckBucketAccess verifies that the bucket is still reachable
func (u *MinioUploader) CheckBucketAccess(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", u.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", u.bucket)
	}
	return nil
}

// Upload puts the file at localPath into the bucket.
func (u *MinioUploader) Upload(ctx context.Context, localPath string, kind MediaKind) (*UploadResult, error) {
	key := objectKey(kind, localPath, time.Now())
	contentType := getContentType(filepath.Ext(localPath))

	info, err := u.client.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=31536000",
		UserMetadata: map[string]string{"file-type": string(kind)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return &UploadResult{
		Key:         key,
		URL:         publicURL(u.baseURL, key),
		Bucket:      u.bucket,
		Size:        info.Size,
		ContentType: contentType,
	}, nil
}
