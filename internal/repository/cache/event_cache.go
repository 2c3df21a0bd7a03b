// Package cache provides a Redis read-through cache in front of an
// EventRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"devevent/internal/domain"
)

// DefaultTTL is how long an event stays cached when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Client is the subset of the Redis client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type eventCache struct {
	inner  domain.EventRepository
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewEventRepository wraps inner so single-event reads are served from Redis.
// Cache failures are logged and the call falls through to inner.
func NewEventRepository(inner domain.EventRepository, client Client, ttl time.Duration, logger *slog.Logger) domain.EventRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &eventCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func idKey(id string) string     { return "event:id:" + id }
func slugKey(slug string) string { return "event:slug:" + slug }

func (c *eventCache) Create(ctx context.Context, e *domain.Event) error {
	return c.inner.Create(ctx, e)
}

func (c *eventCache) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return c.readThrough(ctx, idKey(id), func() (*domain.Event, error) {
		return c.inner.GetByID(ctx, id)
	})
}

func (c *eventCache) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return c.readThrough(ctx, slugKey(slug), func() (*domain.Event, error) {
		return c.inner.GetBySlug(ctx, slug)
	})
}

func (c *eventCache) List(ctx context.Context) ([]*domain.Event, error) {
	return c.inner.List(ctx)
}

func (c *eventCache) Update(ctx context.Context, e *domain.Event) error {
	keys := []string{idKey(e.ID)}
	if e.Slug != "" {
		keys = append(keys, slugKey(e.Slug))
	}
	if prev, err := c.inner.GetByID(ctx, e.ID); err == nil && prev.Slug != "" && prev.Slug != e.Slug {
		keys = append(keys, slugKey(prev.Slug))
	}

	if err := c.inner.Update(ctx, e); err != nil {
		return err
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "event cache eviction failed", "keys", keys, "error", err)
	}
	return nil
}

func (c *eventCache) readThrough(ctx context.Context, key string, load func() (*domain.Event, error)) (*domain.Event, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e domain.Event
		if err := json.Unmarshal(raw, &e); err == nil {
			return &e, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed cached event", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "event cache read failed", "key", key, "error", err)
	}

	e, err := load()
	if err != nil {
		return nil, err
	}
	c.store(ctx, e)
	return e, nil
}

// store caches e under both of its keys.
func (c *eventCache) store(ctx context.Context, e *domain.Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		c.logger.WarnContext(ctx, "event cache encode failed", "id", e.ID, "error", err)
		return
	}
	keys := []string{idKey(e.ID)}
	if e.Slug != "" {
		keys = append(keys, slugKey(e.Slug))
	}
	for _, key := range keys {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "event cache write failed", "key", key, "error", err)
			return
		}
	}
}
