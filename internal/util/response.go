package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Code    string      `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// Respond writes a successful envelope.
func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondOK writes a 200 envelope.
func RespondOK(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, message, data)
}

// RespondCreated writes a 201 envelope.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusCreated, message, data)
}

// RespondError is the single error boundary: any error is mapped to an
// APIError, logged by severity and rendered with success=false.
func RespondError(c *gin.Context, err error) {
	apiErr := errors.From(err)

	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("message", apiErr.Message),
		zap.String("path", c.Request.URL.Path),
		logger.WithStatus(apiErr.Status),
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok {
			fields = append(fields, logger.WithRequestID(id))
		}
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	if apiErr.Status >= http.StatusInternalServerError {
		// Log the underlying cause; the client only sees the generic message.
		logger.ErrorWithFields("API error", err, fields...)
	} else {
		logger.Log.Warn("API error", fields...)
	}

	c.AbortWithStatusJSON(apiErr.Status, Envelope{
		Success: false,
		Message: apiErr.Message,
		Data:    nil,
		Code:    string(apiErr.Code),
		Field:   apiErr.Field,
	})
}

// RespondUnauthorized sends a 401 envelope
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "user not authenticated"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondError(c, errors.Unauthorized(msg))
}
