package handlers

import (
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Register - POST /auth/register
// The only unauthenticated write endpoint.
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, response)
}
