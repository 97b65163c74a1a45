package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   ErrorCode
	}{
		{"validation", ValidationError("title", "too short"), http.StatusBadRequest, ErrValidation},
		{"invalid id", InvalidID("videoId"), http.StatusBadRequest, ErrValidation},
		{"bad request", BadRequest("nope"), http.StatusBadRequest, ErrBadRequest},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden, ErrForbidden},
		{"not found", NotFound("Video"), http.StatusNotFound, ErrNotFound},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized, ErrUnauthorized},
		{"rate limited", RateLimited(""), http.StatusTooManyRequests, ErrRateLimited},
		{"timeout", Timeout("upload"), http.StatusGatewayTimeout, ErrTimeout},
		{"internal", InternalError("boom"), http.StatusInternalServerError, ErrInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.code.StatusCode())
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Video not found", NotFound("Video").Message)
	assert.Equal(t, "Invalid videoId", InvalidID("videoId").Message)
	assert.Equal(t, "videoId", InvalidID("videoId").Field)
	assert.Equal(t, "rate limit exceeded", RateLimited("").Message)
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("loading video: %w", Forbidden("not yours"))
	got := From(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusForbidden, got.Status)

	got = From(fmt.Errorf("upload: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, got.Status)

	got = From(fmt.Errorf("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.NotContains(t, got.Message, "pq")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NotFound("Tweet"))))
	assert.True(t, IsForbidden(Forbidden("x")))
	assert.True(t, IsValidation(InvalidID("tweetId")))
	assert.False(t, IsValidation(NotFound("Tweet")))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}
