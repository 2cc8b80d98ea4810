package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const spacesListTTL = 30 * time.Second

// RedisClient caches authentication lookups and the hot spaces listing.
// Everything in here is best-effort; callers fall back to the database on
// any miss or error.
type RedisClient struct {
	client       *redis.Client
	usersHashKey string
}

func NewRedisClient() (*RedisClient, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("REDIS_PASSWORD")
	usersHashKey := os.Getenv("REDIS_USERS_HASH_KEY")
	if usersHashKey == "" {
		usersHashKey = "users:auth"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:       rdb,
		usersHashKey: usersHashKey,
	}, nil
}

// GetUserIDByAuth looks up a user id by email and password hash in the
// auth cache
func (r *RedisClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (string, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userID, err := r.client.HGet(ctx, r.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("user not found in cache")
		}
		return "", fmt.Errorf("cache lookup error: %w", err)
	}

	return userID, nil
}

// SetUserAuth stores a verified (email, password hash) -> user id mapping
func (r *RedisClient) SetUserAuth(ctx context.Context, email, passwordHash, userID string) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))
	r.client.HSet(ctx, r.usersHashKey, cacheKey, userID)
}

func spacesListKey(page, pageSize int) string {
	return fmt.Sprintf("spaces:list:%d:%d", page, pageSize)
}

// GetSpacesListRaw returns the cached spaces listing as raw JSON so the
// handler can serve it without re-marshaling
func (r *RedisClient) GetSpacesListRaw(ctx context.Context, page, pageSize int) ([]byte, error) {
	raw, err := r.client.Get(ctx, spacesListKey(page, pageSize)).Bytes()
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetSpacesList caches a spaces listing page
func (r *RedisClient) SetSpacesList(ctx context.Context, page, pageSize int, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(ctx, spacesListKey(page, pageSize), raw, spacesListTTL)
}

// InvalidateSpacesList drops all cached listing pages after a space write
func (r *RedisClient) InvalidateSpacesList(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, "spaces:list:*", 100).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
