package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

const multipartMemory = 32 << 20

// parseMultipart bounds the body size and parses the form. It reports false
// after responding when the body is unusable.
func (h *Handlers) parseMultipart(c *gin.Context) bool {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.RespondError(c, apperrors.ValidationError("videoFile", "Upload exceeds the size limit"))
			return false
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			util.RespondError(c, apperrors.BadRequest("Invalid multipart form"))
			return false
		}
	}
	return true
}

// formFile returns the named upload, or nil when the field is absent.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// GetAllVideos lists published videos
// GET /api/v1/videos
func (h *Handlers) GetAllVideos(c *gin.Context) {
	page, err := h.services.Videos.List(c.Request.Context(), service.ListVideosParams{
		PageRequest: pageRequest(c),
		Query:       c.Query("query"),
		SortBy:      c.Query("sortBy"),
		SortType:    c.Query("sortType"),
		UserID:      c.Query("userId"),
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Videos fetched successfully", page)
}

// PublishVideo uploads a video with its thumbnail
// POST /api/v1/videos (multipart: title, description, videoFile, thumbnail)
func (h *Handlers) PublishVideo(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	if !h.parseMultipart(c) {
		return
	}

	videoFile := formFile(c, "videoFile")
	if videoFile == nil {
		util.RespondError(c, apperrors.ValidationError("videoFile", "Video file is required"))
		return
	}
	thumbnail := formFile(c, "thumbnail")
	if thumbnail == nil {
		util.RespondError(c, apperrors.ValidationError("thumbnail", "Thumbnail image is required"))
		return
	}
	if !util.IsValidVideoFile(videoFile.Filename) {
		util.RespondError(c, apperrors.ValidationError("videoFile", "Unsupported video file type"))
		return
	}
	if !util.IsValidImageFile(thumbnail.Filename) {
		util.RespondError(c, apperrors.ValidationError("thumbnail", "Unsupported thumbnail image type"))
		return
	}

	videoPath, err := util.SaveUploadedFile(videoFile, h.uploadDir)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	defer util.RemoveFiles(videoPath)
	thumbnailPath, err := util.SaveUploadedFile(thumbnail, h.uploadDir)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	defer util.RemoveFiles(thumbnailPath)

	video, err := h.services.Videos.Publish(c.Request.Context(), actorID, service.PublishVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		VideoSize:     videoFile.Size,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondCreated(c, "Video published successfully", video)
}

// GetVideoByID returns a video and counts the view
// GET /api/v1/videos/:videoId
func (h *Handlers) GetVideoByID(c *gin.Context) {
	video, err := h.services.Videos.Get(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Video fetched successfully", video)
}

// UpdateVideo edits title, description or thumbnail. Accepts JSON or a
// multipart form with an optional thumbnail file.
// PATCH /api/v1/videos/:videoId
func (h *Handlers) UpdateVideo(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}

	var in service.UpdateVideoInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.parseMultipart(c) {
			return
		}
		if title, ok := c.GetPostForm("title"); ok {
			in.Title = &title
		}
		if description, ok := c.GetPostForm("description"); ok {
			in.Description = &description
		}
		if thumbnail := formFile(c, "thumbnail"); thumbnail != nil {
			if !util.IsValidImageFile(thumbnail.Filename) {
				util.RespondError(c, apperrors.ValidationError("thumbnail", "Unsupported thumbnail image type"))
				return
			}
			path, err := util.SaveUploadedFile(thumbnail, h.uploadDir)
			if err != nil {
				util.RespondError(c, err)
				return
			}
			defer util.RemoveFiles(path)
			in.ThumbnailPath = path
		}
	} else {
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if !bindJSON(c, &req) {
			return
		}
		in.Title, in.Description = req.Title, req.Description
	}

	video, err := h.services.Videos.Update(c.Request.Context(), actorID, c.Param("videoId"), in)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Video updated successfully", video)
}

// DeleteVideo deletes a video
// DELETE /api/v1/videos/:videoId
func (h *Handlers) DeleteVideo(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	if err := h.services.Videos.Delete(c.Request.Context(), actorID, c.Param("videoId")); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Video deleted successfully", nil)
}

// TogglePublishStatus flips a video between published and unpublished
// PATCH /api/v1/videos/toggle/publish/:videoId
func (h *Handlers) TogglePublishStatus(c *gin.Context) {
	actorID, ok := util.GetActorID(c)
	if !ok {
		return
	}
	video, err := h.services.Videos.TogglePublish(c.Request.Context(), actorID, c.Param("videoId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	message := "Video unpublished successfully"
	if video.IsPublished {
		message = "Video published successfully"
	}
	util.RespondOK(c, message, video)
}
