package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
)

const (
	keyAvailable  = "catalog:available"
	keyUnassigned = "catalog:unassigned"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache shares the catalog across replicas. Cache errors degrade to
// misses; the catalog queries are cheap enough to fall through.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedisCache(cfg RedisConfig, ttl time.Duration, log *slog.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &RedisCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisCache) GetAvailable(ctx context.Context) ([]course.CatalogEntry, bool) {
	var entries []course.CatalogEntry

	if !c.get(ctx, keyAvailable, &entries) {
		return nil, false
	}
	return entries, true
}

func (c *RedisCache) SetAvailable(ctx context.Context, entries []course.CatalogEntry) {
	c.set(ctx, keyAvailable, entries)
}

func (c *RedisCache) GetUnassigned(ctx context.Context) ([]course.UnassignedCourse, bool) {
	var courses []course.UnassignedCourse

	if !c.get(ctx, keyUnassigned, &courses) {
		return nil, false
	}
	return courses, true
}

func (c *RedisCache) SetUnassigned(ctx context.Context, courses []course.UnassignedCourse) {
	c.set(ctx, keyUnassigned, courses)
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	err := c.rdb.Del(ctx, keyAvailable, keyUnassigned).Err()

	if err != nil && c.log != nil {
		c.log.Warn("catalog cache invalidate failed", "err", err)
	}
}

func (c *RedisCache) get(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()

	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("catalog cache read failed", "key", key, "err", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if c.log != nil {
			c.log.Warn("catalog cache decode failed", "key", key, "err", err)
		}
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)

	if err != nil {
		return
	}

	err = c.rdb.Set(ctx, key, raw, c.ttl).Err()

	if err != nil && c.log != nil {
		c.log.Warn("catalog cache write failed", "key", key, "err", err)
	}
}
