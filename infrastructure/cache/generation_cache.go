package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis. Callers treat a nil client as "cache disabled".
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// GenerationCache stores raw generation output keyed by prompt hash so
// repeated prompts skip the backend call. All operations are best-effort: a
// cache error is logged and treated as a miss.
type GenerationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGenerationCache(client *redis.Client, ttl time.Duration) *GenerationCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &GenerationCache{client: client, ttl: ttl}
}

func (c *GenerationCache) Get(ctx context.Context, prompt string) (string, bool) {
	val, err := c.client.Get(ctx, cacheKey(prompt)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("Generation cache read failed")
		}
		return "", false
	}
	return val, true
}

func (c *GenerationCache) Set(ctx context.Context, prompt string, text string) {
	if err := c.client.Set(ctx, cacheKey(prompt), text, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Generation cache write failed")
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "generation:" + hex.EncodeToString(sum[:])
}
