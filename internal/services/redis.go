package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dialogcache:"

// RedisCache implements Cache on Redis so several API instances can share
// generated dialog. Entries expire through Redis TTLs.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Ensure RedisCache implements Cache interface
var _ Cache = (*RedisCache)(nil)

// NewRedisCache creates a cache from a redis:// URL. It does not contact
// the server; call Ping or WaitForConnection for that.
func NewRedisCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisCache{
		client: redis.NewClient(opt),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Redis GET failed, treating as miss", "key", key, "error", err)
		}
		return "", false
	}

	r.logger.Debug("Redis GET successful", "key", key, "value_length", len(value))
	return value, true
}

// GetWithTTL is Get plus the time the entry has left in Redis. Keys
// written without an expiry report the cache TTL.
func (r *RedisCache) GetWithTTL(ctx context.Context, key string) (string, time.Duration, bool) {
	var (
		getCmd *redis.StringCmd
		ttlCmd *redis.DurationCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		getCmd = pipe.Get(ctx, redisKeyPrefix+key)
		ttlCmd = pipe.PTTL(ctx, redisKeyPrefix+key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("Redis GET failed, treating as miss", "key", key, "error", err)
		return "", 0, false
	}

	value, err := getCmd.Result()
	if err != nil {
		return "", 0, false
	}

	// PTTL answers -1 for no expiry and -2 once the key is gone
	remaining := ttlCmd.Val()
	switch {
	case remaining == -1:
		remaining = r.ttl
	case remaining <= 0:
		return "", 0, false
	}

	r.logger.Debug("Redis GET successful", "key", key, "value_length", len(value), "ttl", remaining)
	return value, remaining, true
}

func (r *RedisCache) Set(ctx context.Context, key, value string) {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		r.logger.Warn("Redis SET failed", "key", key, "error", err)
		return
	}
	r.logger.Debug("Redis SET successful", "key", key)
}

// Clear deletes every namespaced key and leaves other data untouched.
func (r *RedisCache) Clear(ctx context.Context) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			r.logger.Warn("Redis SCAN failed during clear", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.logger.Warn("Redis DEL failed during clear", "error", err)
				return
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	r.logger.Debug("Redis cache cleared", "deleted_count", deleted)
}

func (r *RedisCache) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection pings until Redis answers, the retries run out, or ctx ends.
func (r *RedisCache) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
