package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"atelier/web/internal/work"
)

const (
	keyAllWorks = "works:all"
	keyCategory = "works:category:"
)

// WorkCache keeps short-lived copies of the public gallery listings so the
// public pages don't pay an API round-trip on every view. A nil redis client
// disables it; every method then falls through to a miss or a no-op. Admin
// reads never go through here.
type WorkCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewWorkCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *WorkCache {
	return &WorkCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "work_cache").Logger(),
	}
}

func (c *WorkCache) Enabled() bool { return c.client != nil }

func (c *WorkCache) GetList(ctx context.Context) ([]work.Work, bool) {
	return c.get(ctx, keyAllWorks)
}

func (c *WorkCache) SetList(ctx context.Context, works []work.Work) {
	c.set(ctx, keyAllWorks, works)
}

func (c *WorkCache) GetCategory(ctx context.Context, category work.Category) ([]work.Work, bool) {
	return c.get(ctx, keyCategory+string(category))
}

func (c *WorkCache) SetCategory(ctx context.Context, category work.Category, works []work.Work) {
	c.set(ctx, keyCategory+string(category), works)
}

// Invalidate drops every listing key. Called after any mutation so the
// public pages never serve a stale gallery longer than one request.
func (c *WorkCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	keys := make([]string, 0, len(work.Categories)+1)
	keys = append(keys, keyAllWorks)
	for _, category := range work.Categories {
		keys = append(keys, keyCategory+string(category))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidate failed")
	}
}

func (c *WorkCache) get(ctx context.Context, key string) ([]work.Work, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}
	var works []work.Work
	if err := json.Unmarshal(raw, &works); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return nil, false
	}
	return works, true
}

func (c *WorkCache) set(ctx context.Context, key string, works []work.Work) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(works)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
