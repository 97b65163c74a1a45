package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestBindJSON(t *testing.T) {
	t.Run("empty body keeps zero value", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/", nil)
		var req contentRequest
		assert.True(t, bindJSON(c, &req))
		assert.Empty(t, req.Content)
	})

	t.Run("valid body", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/", []byte(`{"content":"hi"}`))
		var req contentRequest
		assert.True(t, bindJSON(c, &req))
		assert.Equal(t, "hi", req.Content)
	})

	t.Run("malformed body", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", []byte(`{"content":`))
		var req contentRequest
		assert.False(t, bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request body")
	})
}

func TestPageRequest(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/?page=3&limit=25", nil)
	req := pageRequest(c)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 25, req.Limit)

	c, _ = newTestContext(http.MethodGet, "/", nil)
	req = pageRequest(c)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 10, req.Limit)
}

func TestListMessage(t *testing.T) {
	assert.Equal(t, "none", listMessage(0, "none", "some"))
	assert.Equal(t, "some", listMessage(2, "none", "some"))
}
