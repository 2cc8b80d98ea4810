package handlers

import (
	"net/http"
	"strconv"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Spaces handlers

// CreateSpace - POST /api/spaces
func (h *Handlers) CreateSpace(c *gin.Context) {
	var req models.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Spaces.Create(c.Request.Context(), operatorID, &req)
	if err != nil {
		respondError(c, err, "Failed to create parking space")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateSpace - PATCH /api/spaces/:id
func (h *Handlers) UpdateSpace(c *gin.Context) {
	var req models.UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Spaces.Update(c.Request.Context(), operatorID, c.Param("id"), &req); err != nil {
		respondError(c, err, "Failed to update parking space")
		return
	}

	c.Status(http.StatusOK)
}

// ListSpaces - GET /api/spaces
// Serves raw JSON straight from the cache when warm.
func (h *Handlers) ListSpaces(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	raw, err := h.services.Spaces.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to list parking spaces")
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// SearchSpaces - GET /api/spaces/search
func (h *Handlers) SearchSpaces(c *gin.Context) {
	var req models.SearchSpacesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Spaces.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to search parking spaces")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSpace - GET /api/spaces/:id
func (h *Handlers) GetSpace(c *gin.Context) {
	response, err := h.services.Spaces.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get parking space")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMySpaces - GET /api/spaces/mine
func (h *Handlers) ListMySpaces(c *gin.Context) {
	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Spaces.ListByOperator(c.Request.Context(), operatorID)
	if err != nil {
		respondError(c, err, "Failed to list parking spaces")
		return
	}

	c.JSON(http.StatusOK, response)
}
