package http

import (
	"errors"
	"net/http"

	"metalya/internal/entity"
	"metalya/internal/usecase"

	"github.com/gin-gonic/gin"
)

// respondError translates use-case errors into HTTP responses. Anything not
// recognized is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, usecase.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No account for this email"})
	case errors.Is(err, usecase.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, usecase.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrCampaignSent):
		c.JSON(http.StatusConflict, gin.H{"error": "Campaign already sent"})
	case errors.Is(err, usecase.ErrNoSubscribers):
		c.JSON(http.StatusConflict, gin.H{"error": "No active subscribers"})
	case errors.Is(err, usecase.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or already used token"})
	case errors.Is(err, usecase.ErrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token has expired"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func callerRole(c *gin.Context) entity.UserRole {
	return entity.UserRole(c.GetString("user_role"))
}
