package handlers

import (
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Admin handlers. Routing restricts these to admin users.

// VerifyUser - POST /api/admin/verify
func (h *Handlers) VerifyUser(c *gin.Context) {
	var req models.VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Admin.VerifyUser(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to verify user")
		return
	}

	c.Status(http.StatusOK)
}

// SetDiscount - POST /api/admin/discount
func (h *Handlers) SetDiscount(c *gin.Context) {
	var req models.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Admin.SetDiscount(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to set discount")
		return
	}

	c.Status(http.StatusOK)
}

// SetBonus - POST /api/admin/bonus
func (h *Handlers) SetBonus(c *gin.Context) {
	var req models.SetBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Admin.SetBonus(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to set bonus")
		return
	}

	c.Status(http.StatusOK)
}
