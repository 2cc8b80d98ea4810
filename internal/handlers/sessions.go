package handlers

import (
	"context"
	"net/http"

	"epark/internal/models"

	"github.com/gin-gonic/gin"
)

// Sessions handlers

// ReserveSession - POST /api/sessions/reserve
func (h *Handlers) ReserveSession(c *gin.Context) {
	var req models.ReserveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driverID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Sessions.Reserve(c.Request.Context(), driverID, &req)
	if err != nil {
		respondError(c, err, "Failed to reserve parking session")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// CheckInSession - POST /api/sessions/check-in
// The booking code comes from the QR scan at the gate, so this endpoint
// does not require the session to belong to the caller; operators scan
// on drivers' behalf.
func (h *Handlers) CheckInSession(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Sessions.CheckIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to check in")
		return
	}

	c.JSON(http.StatusOK, response)
}

// PauseSession - POST /api/sessions/pause
func (h *Handlers) PauseSession(c *gin.Context) {
	h.sessionAction(c, h.services.Sessions.Pause, "Failed to pause session")
}

// ResumeSession - POST /api/sessions/resume
func (h *Handlers) ResumeSession(c *gin.Context) {
	h.sessionAction(c, h.services.Sessions.Resume, "Failed to resume session")
}

// CheckoutSession - POST /api/sessions/checkout
func (h *Handlers) CheckoutSession(c *gin.Context) {
	h.sessionAction(c, h.services.Sessions.Checkout, "Failed to check out")
}

// CancelSession - POST /api/sessions/cancel
func (h *Handlers) CancelSession(c *gin.Context) {
	h.sessionAction(c, h.services.Sessions.Cancel, "Failed to cancel session")
}

// ListSessions - GET /api/sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	driverID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var statuses []string
	if status := c.Query("status"); status != "" {
		statuses = []string{status}
	}

	response, err := h.services.Sessions.List(c.Request.Context(), driverID, statuses)
	if err != nil {
		respondError(c, err, "Failed to list sessions")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSession - GET /api/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	driverID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Sessions.Get(c.Request.Context(), driverID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get session")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListOperatorSessions - GET /api/sessions/operator
func (h *Handlers) ListOperatorSessions(c *gin.Context) {
	operatorID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var statuses []string
	if status := c.Query("status"); status != "" {
		statuses = []string{status}
	}

	response, err := h.services.Sessions.ListForOperator(c.Request.Context(), operatorID, statuses)
	if err != nil {
		respondError(c, err, "Failed to list sessions")
		return
	}

	c.JSON(http.StatusOK, response)
}

// sessionAction is the shared body for pause, resume, checkout and cancel;
// they differ only in which service call runs.
func (h *Handlers) sessionAction(c *gin.Context,
	action func(ctx context.Context, driverID, sessionID string) (*models.SessionResponseItem, error),
	fallback string) {

	var req models.SessionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driverID, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := action(c.Request.Context(), driverID, req.SessionID)
	if err != nil {
		respondError(c, err, fallback)
		return
	}

	c.JSON(http.StatusOK, response)
}
