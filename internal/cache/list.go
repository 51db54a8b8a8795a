// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go caches rendered GET /feedbacks response bodies keyed by the
// canonical query. Any feedback write drops every entry, since a single
// item can appear under many filter and sort combinations.
package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// listKeyPrefix is the Valkey key prefix for cached list responses.
const listKeyPrefix = "feedbacks:list:"

// ListCache stores encoded list responses. Errors are logged and treated
// as misses; the cache never fails a request.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	Invalidate(ctx context.Context)
}

// ValkeyListCache keeps list responses in Valkey so every server instance
// shares them.
type ValkeyListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyListCache creates a list cache backed by the given Valkey client.
func NewValkeyListCache(client *redis.Client, ttl time.Duration) *ValkeyListCache {
	return &ValkeyListCache{client: client, ttl: ttl}
}

// Get retrieves a cached body. Returns false on miss.
func (c *ValkeyListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a body with the configured TTL.
func (c *ValkeyListCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, listKeyPrefix+key, body, c.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// Invalidate removes all cached list responses by scanning for the prefix.
func (c *ValkeyListCache) Invalidate(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache cleared", "deleted", deleted)
	}
}

// MemoryListCache keeps list responses in process memory. It serves a
// single instance only.
type MemoryListCache struct {
	items *gocache.Cache
}

// NewMemoryListCache creates an in-process list cache whose entries expire
// after ttl.
func NewMemoryListCache(ttl time.Duration) *MemoryListCache {
	return &MemoryListCache{items: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a cached body. Returns false on miss.
func (c *MemoryListCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Set stores a body with the default expiration.
func (c *MemoryListCache) Set(_ context.Context, key string, body []byte) {
	c.items.SetDefault(key, body)
}

// Invalidate drops every cached body.
func (c *MemoryListCache) Invalidate(context.Context) {
	c.items.Flush()
}
