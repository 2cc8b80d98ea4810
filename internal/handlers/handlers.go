package handlers

import (
	"errors"
	"net/http"

	apperrors "epark/internal/errors"
	"epark/internal/logger"
	"epark/internal/service"
	"epark/internal/session"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// userID pulls the authenticated user id set by the BasicAuth middleware
func userID(c *gin.Context) (string, bool) {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// respondError maps service errors to HTTP status codes. Domain rule
// violations surface their own message; anything unexpected becomes an
// opaque 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, session.ErrNoAvailability),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrCancellationWindowExpired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
