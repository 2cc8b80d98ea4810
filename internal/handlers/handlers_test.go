package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "epark/internal/errors"
	"epark/internal/service"
	"epark/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Handlers wired with empty services. Requests in these tests are rejected
// by binding or auth checks before any service is reached.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandlers(&service.Services{})

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/sessions/reserve", h.ReserveSession)
		api.POST("/sessions/check-in", h.CheckInSession)
		api.POST("/sessions/pause", h.PauseSession)
		api.POST("/sessions/checkout", h.CheckoutSession)
		api.POST("/spaces", h.CreateSpace)
		api.POST("/wallet/fund", h.FundWallet)
		api.POST("/invites", h.CreateInvite)
	}
	router.POST("/auth/register", h.Register)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReserveSessionRejectsMissingSpaceID(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/sessions/reserve", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestReserveSessionRequiresAuthenticatedUser(t *testing.T) {
	router := setupRouter(t)

	// Valid body but no auth middleware ran, so no user in context.
	w := doJSON(router, http.MethodPost, "/api/sessions/reserve", `{"parking_space_id":"abc"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckInRejectsMissingBookingCode(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/sessions/check-in", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionActionRejectsMissingSessionID(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/api/sessions/pause", "/api/sessions/checkout"} {
		w := doJSON(router, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestCreateSpaceRejectsInvalidBody(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"zero capacity", `{"name":"Lot","area":"Ikeja","address":"1 Road","total_spaces":0,"price_per_hour":50000}`},
		{"zero price", `{"name":"Lot","area":"Ikeja","address":"1 Road","total_spaces":10,"price_per_hour":0}`},
		{"malformed json", `{"name":`},
	}

	for _, tc := range cases {
		w := doJSON(router, http.MethodPost, "/api/spaces", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestFundWalletRejectsNonPositiveAmount(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/wallet/fund", `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/wallet/fund", `{"amount":-100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInviteRejectsBadEmail(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/invites", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	router := setupRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"bad email", `{"email":"nope","password":"longenough","full_name":"Ada"}`},
		{"short password", `{"email":"ada@example.ng","password":"short","full_name":"Ada"}`},
		{"bad user type", `{"email":"ada@example.ng","password":"longenough","full_name":"Ada","user_type":"admin"}`},
	}

	for _, tc := range cases {
		w := doJSON(router, http.MethodPost, "/auth/register", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"invalid transition", session.ErrInvalidTransition, http.StatusConflict},
		{"no availability", session.ErrNoAvailability, http.StatusConflict},
		{"window expired", session.ErrCancellationWindowExpired, http.StatusUnprocessableEntity},
		{"email taken", apperrors.ErrEmailTaken, http.StatusConflict},
		{"wrapped email taken", fmt.Errorf("register: %w", apperrors.ErrEmailTaken), http.StatusConflict},
		{"wrapped not found", errors.Join(errors.New("ctx"), apperrors.ErrNotFound), http.StatusNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err, "fallback")

			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: connection refused"), "Failed to reserve parking session")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Failed to reserve parking session")
}
