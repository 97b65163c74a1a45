package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/auth"
	apperrors "github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

// Login exchanges email and password for a bearer token
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	if h.auth == nil {
		util.RespondError(c, apperrors.ServiceUnavailable("authentication"))
		return
	}

	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondError(c, apperrors.ValidationError("email", "Email and password are required"))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserNotFound) {
			util.RespondUnauthorized(c, "Invalid email or password")
			return
		}
		util.RespondError(c, err)
		return
	}
	util.RespondOK(c, "Login successful", token)
}
