package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/redis/go-redis/v9"
)

// MenuCache caches the public menu listing per category filter
type MenuCache interface {
	// GetMenus returns the cached listing and whether it was present
	GetMenus(ctx context.Context, category string) ([]models.Menu, bool, error)
	SetMenus(ctx context.Context, category string, menus []models.Menu) error
	// Invalidate drops every cached listing
	Invalidate(ctx context.Context) error
}

// NoopMenuCache never holds anything
type NoopMenuCache struct{}

func (NoopMenuCache) GetMenus(context.Context, string) ([]models.Menu, bool, error) {
	return nil, false, nil
}

func (NoopMenuCache) SetMenus(context.Context, string, []models.Menu) error { return nil }

func (NoopMenuCache) Invalidate(context.Context) error { return nil }

// RedisMenuCache stores listings as JSON strings under a key prefix
type RedisMenuCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var menuCacheInstance MenuCache = NoopMenuCache{}

// NewRedisMenuCache creates a cache whose keys all start with prefix
func NewRedisMenuCache(client *redis.Client, prefix string, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{client: client, prefix: prefix, ttl: ttl}
}

// GetMenuCache returns the active menu cache
func GetMenuCache() MenuCache {
	return menuCacheInstance
}

// SetMenuCache replaces the active menu cache
func SetMenuCache(cache MenuCache) {
	if cache == nil {
		cache = NoopMenuCache{}
	}
	menuCacheInstance = cache
}

func (r *RedisMenuCache) key(category string) string {
	var builder strings.Builder
	builder.Grow(len(r.prefix) + len(category) + 10)
	builder.WriteString(r.prefix)
	builder.WriteString(":category:")
	builder.WriteString(category)
	return builder.String()
}

func (r *RedisMenuCache) GetMenus(ctx context.Context, category string) ([]models.Menu, bool, error) {
	payload, err := r.client.Get(ctx, r.key(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var menus []models.Menu
	if err := json.Unmarshal(payload, &menus); err != nil {
		return nil, false, err
	}
	return menus, true, nil
}

func (r *RedisMenuCache) SetMenus(ctx context.Context, category string, menus []models.Menu) error {
	payload, err := json.Marshal(menus)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(category), payload, r.ttl).Err()
}

func (r *RedisMenuCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
