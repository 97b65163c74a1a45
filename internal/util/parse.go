package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParsePagination reads the page and limit query parameters. Unparseable
// values fall back to the defaults; range clamping is left to the caller.
func ParsePagination(c *gin.Context) (page, limit int) {
	page = ParseInt(c.Query("page"), DefaultPage)
	limit = ParseInt(c.Query("limit"), DefaultLimit)
	return page, limit
}
