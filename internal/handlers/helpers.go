package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/service"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

type contentRequest struct {
	Content string `json:"content"`
}

// bindJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so the service reports which field is missing.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		util.RespondError(c, apperrors.BadRequest("Invalid request body"))
		return false
	}
	return true
}

func pageRequest(c *gin.Context) service.PageRequest {
	page, limit := util.ParsePagination(c)
	return service.PageRequest{Page: page, Limit: limit}
}

// listMessage picks the empty-list message when items is empty.
func listMessage(n int, empty, found string) string {
	if n == 0 {
		return empty
	}
	return found
}
