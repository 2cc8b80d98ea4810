package handlers

import (
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Wallet handlers

// GetWallet - GET /api/wallet
func (h *Handlers) GetWallet(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Wallet.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get wallet")
		return
	}

	c.JSON(http.StatusOK, response)
}

// FundWallet - POST /api/wallet/fund
func (h *Handlers) FundWallet(c *gin.Context) {
	var req models.FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Wallet.Fund(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to fund wallet")
		return
	}

	c.JSON(http.StatusCreated, response)
}
