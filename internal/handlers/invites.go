package handlers

import (
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Manager invite handlers

// CreateInvite - POST /api/invites
func (h *Handlers) CreateInvite(c *gin.Context) {
	var req models.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Invites.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		respondError(c, err, "Failed to create invite")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// AcceptInvite - POST /api/invites/accept
func (h *Handlers) AcceptInvite(c *gin.Context) {
	var req models.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Invites.Accept(c.Request.Context(), id, &req); err != nil {
		respondError(c, err, "Failed to accept invite")
		return
	}

	c.Status(http.StatusOK)
}

// ListInvites - GET /api/invites
func (h *Handlers) ListInvites(c *gin.Context) {
	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Invites.List(c.Request.Context(), operatorID)
	if err != nil {
		respondError(c, err, "Failed to list invites")
		return
	}

	c.JSON(http.StatusOK, response)
}
