package storage

import (
	"context"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"go.uber.org/zap"
)

// Disabled rejects every upload. It backs STORAGE_DRIVER=none.
type Disabled struct{}

func (Disabled) Backend() string { return "none" }

func (Disabled) Upload(context.Context, string, MediaKind) (*UploadResult, error) {
	return nil, errors.ServiceUnavailable("upload service")
}

type instrumented struct {
	next Uploader
}

// Instrument wraps u so every upload is traced, timed and counted.
func Instrument(u Uploader) Uploader {
	return &instrumented{next: u}
}

func (i *instrumented) Backend() string { return i.next.Backend() }

func (i *instrumented) Upload(ctx context.Context, localPath string, kind MediaKind) (*UploadResult, error) {
	backend := i.next.Backend()
	ctx, span := telemetry.GetBusinessEvents().TraceExternalAPI(ctx, backend, "upload_"+string(kind))
	defer span.End()

	start := time.Now()
	res, err := i.next.Upload(ctx, localPath, kind)
	elapsed := time.Since(start)

	metrics.RecordUpload(backend, string(kind), elapsed, err)
	telemetry.RecordError(span, err)
	if err != nil {
		logger.WarnWithFields("Upload failed", err,
			zap.String("backend", backend),
			zap.String("kind", string(kind)),
			logger.WithDuration(elapsed),
		)
		return nil, err
	}
	return res, nil
}
