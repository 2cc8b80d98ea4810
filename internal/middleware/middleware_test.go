package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := ContextWithUser(context.Background(), "user-1", "driver")

	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	userType, ok := UserTypeFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "driver", userType)
}

func TestUserContextVisibleToRequestLogs(t *testing.T) {
	ctx := ContextWithUser(context.Background(), "user-1", "driver")

	// logger.WithContext reads the plain string key.
	assert.Equal(t, "user-1", ctx.Value("user_id"))
}

func TestUserContextEmpty(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	// An id without a resolved type reports no type.
	ctx := ContextWithUser(context.Background(), "user-1", "")
	_, ok = UserTypeFromContext(ctx)
	assert.False(t, ok)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS())
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBasicAuthRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(BasicAuth(nil, nil))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Basic realm=\"Restricted\"", w.Header().Get("WWW-Authenticate"))
}
