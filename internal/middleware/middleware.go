package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"epark/internal/cache"
	"epark/internal/logger"
	"epark/internal/repository"

	"github.com/gin-gonic/gin"
)

// Ctx keys and helpers for the authenticated user.
// Unexported type avoids collisions with other packages' context values.

type ctxKey string

const (
	userIDKey   ctxKey = "user_id"
	userTypeKey ctxKey = "user_type"
)

func ContextWithUser(ctx context.Context, userID, userType string) context.Context {
	// Also under the logger's key, so request-scoped logs carry the user id.
	ctx = logger.ContextWithUserID(ctx, userID)
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userTypeKey, userType)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func UserTypeFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(userTypeKey).(string)
	return t, ok && t != ""
}

// CORS handles cross-origin requests from the web client
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID attaches a request id to the context so downstream logs from
// one request can be correlated
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = logger.NewRequestID()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// Logger emits one structured log line per request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		log := logger.WithContext(c.Request.Context())

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			log.Error("Request completed with error", logFields...)
		} else {
			log.Debug("Request completed", logFields...)
		}
	}
}

// Recovery turns panics into 500 responses with a detailed log line
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithContext(c.Request.Context()).Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates the user via HTTP Basic Auth, checking the Redis
// auth cache first and falling back to the database. On a database hit the
// mapping is written back to the cache.
func BasicAuth(userRepo *repository.UserRepository, redisClient *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", "Basic realm=\"Restricted\"")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()

		hash := sha256.Sum256([]byte(password))
		passwordHash := fmt.Sprintf("%x", hash)

		if redisClient != nil {
			userID, err := redisClient.GetUserIDByAuth(ctx, email, passwordHash)
			if err == nil {
				// User type is not cached; admin routes re-check it
				// against the database via RequireUserType.
				c.Set("user_id", userID)
				c.Request = c.Request.WithContext(ContextWithUser(c.Request.Context(), userID, ""))
				c.Next()
				return
			}
		}

		user, err := userRepo.GetByEmail(ctx, email)
		if err != nil || user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.PasswordHash == "" || passwordHash != user.PasswordHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if redisClient != nil {
			redisClient.SetUserAuth(ctx, email, passwordHash, user.ID)
		}

		c.Set("user_id", user.ID)
		c.Request = c.Request.WithContext(ContextWithUser(c.Request.Context(), user.ID, user.UserType))

		c.Next()
	}
}

// RequireUserType gates a route group to the given user types. It reads
// the type from context when BasicAuth resolved it from the database, and
// loads the user otherwise (cache hits carry only the id).
func RequireUserType(userRepo *repository.UserRepository, allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userType, ok := UserTypeFromContext(ctx)
		if !ok {
			userID, idOK := UserIDFromContext(ctx)
			if !idOK {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}

			user, err := userRepo.GetByID(ctx, userID)
			if err != nil || user == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			userType = user.UserType
			c.Request = c.Request.WithContext(ContextWithUser(ctx, userID, userType))
		}

		for _, t := range allowed {
			if userType == t || userType == "both" && (t == "driver" || t == "operator") {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
