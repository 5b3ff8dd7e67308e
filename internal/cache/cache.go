// Package cache manages merchant-scoped response cache tags backed by redis.
// Read endpoints advertise their tags via the X-Cache-Tags header; write
// paths invalidate the tags so downstream caches drop stale pages.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Well-known tag names.
const (
	TagOrders    = "orders"
	TagInventory = "inventory"
	TagStats     = "stats"
)

// Invalidator deletes cache tags. A nil *RedisInvalidator is a safe no-op so
// deployments without redis skip invalidation silently.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string) error
}

// RedisInvalidator implements Invalidator over a redis connection.
type RedisInvalidator struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisInvalidator connects to redis and verifies the connection.
func NewRedisInvalidator(redisURL string, logger zerolog.Logger) (*RedisInvalidator, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Msg("redis cache invalidator connected")

	return &RedisInvalidator{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

// Close releases the redis connection.
func (c *RedisInvalidator) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Invalidate deletes the given tag keys.
func (c *RedisInvalidator) Invalidate(ctx context.Context, tags ...string) error {
	if c == nil || len(tags) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, tags...).Err(); err != nil {
		c.logger.Error().Err(err).Strs("tags", tags).Msg("cache invalidation failed")
		return fmt.Errorf("cache invalidation failed: %w", err)
	}

	c.logger.Debug().Strs("tags", tags).Msg("cache tags invalidated")
	return nil
}

// Tags builds the merchant-scoped tag keys for the given names.
func Tags(merchantID string, names ...string) []string {
	tags := make([]string, len(names))
	for i, name := range names {
		tags[i] = fmt.Sprintf("cache:%s:%s", merchantID, name)
	}
	return tags
}

// Header renders tag keys for the X-Cache-Tags response header.
func Header(tags []string) string {
	return strings.Join(tags, ",")
}
