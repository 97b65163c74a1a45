package handlers

import (
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/auth"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	services       *service.Services
	auth           *auth.Service
	uploadDir      string
	maxUploadBytes int64
}

// NewHandlers creates a new handlers instance. Multipart uploads are staged
// in uploadDir and bodies larger than maxUploadMB are rejected.
func NewHandlers(services *service.Services, uploadDir string, maxUploadMB int) *Handlers {
	if uploadDir == "" {
		uploadDir = "/tmp/video_uploads"
	}
	return &Handlers{
		services:       services,
		uploadDir:      uploadDir,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// SetAuthService enables the login endpoint
func (h *Handlers) SetAuthService(a *auth.Service) {
	h.auth = a
}
