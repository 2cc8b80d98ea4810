package handlers

import (
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Notification handlers

// ListNotifications - GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Notifications.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, response)
}

// MarkNotificationsRead - POST /api/notifications/read
// An empty ids list marks everything read.
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	var req models.MarkNotificationsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), id, req.IDs); err != nil {
		respondError(c, err, "Failed to mark notifications read")
		return
	}

	c.Status(http.StatusOK)
}

// UnreadNotificationsCount - GET /api/notifications/unread-count
func (h *Handlers) UnreadNotificationsCount(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.services.Notifications.UnreadCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}
