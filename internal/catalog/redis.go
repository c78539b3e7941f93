package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-vertrieb/internal/pricing"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is where the snapshot is stored.
const DefaultRedisKey = "vertrieb:catalog:prices"

// ConnectRedis parses a redis:// URL and pings the server.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = 3
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// RedisCache keeps the snapshot as a JSON blob under one key.
type RedisCache struct {
	client redis.Cmdable
	key    string
}

func NewRedisCache(client redis.Cmdable, key string) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{client: client, key: key}
}

func (c *RedisCache) Get(ctx context.Context) (*pricing.Prices, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := pricing.NewPrices()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode cached catalog: %w", err)
	}
	return p, nil
}

func (c *RedisCache) Set(ctx context.Context, p *pricing.Prices, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
