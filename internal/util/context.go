package util

import (
	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
)

// ContextUserID is the gin context key the auth middleware stores the
// authenticated user ID under.
const ContextUserID = "user_id"

// GetActorID extracts the authenticated user ID from the Gin context.
// If the request is not authenticated it responds with 401 and returns false.
func GetActorID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		RespondUnauthorized(c)
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		RespondError(c, errors.InternalError("invalid user ID in context"))
		return "", false
	}
	return userIDStr, true
}

// OptionalActorID returns the authenticated user ID if there is one.
func OptionalActorID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
