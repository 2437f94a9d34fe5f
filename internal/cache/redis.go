package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisPrefix = "headlinehub:"

	redisOpTimeout = 2 * time.Second
	clearBatch     = 100
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisCache keeps raw provider records as JSON so replicas behind one Redis
// share upstream responses. Get hands back json.RawMessage.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects and pings Redis, failing fast when it is unreachable.
func NewRedis(cfg RedisConfig, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, ttl: ttl, prefix: cfg.Prefix}, nil
}

func (c *RedisCache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// Get misses on any Redis error. A value that is not valid JSON is removed.
func (c *RedisCache) Get(key string) (interface{}, bool) {
	ctx, cancel := c.opContext()
	defer cancel()

	full := c.prefix + key
	data, err := c.client.Get(ctx, full).Bytes()
	if err != nil {
		return nil, false
	}
	if !json.Valid(data) {
		c.client.Del(ctx, full)
		return nil, false
	}
	return json.RawMessage(data), true
}

func (c *RedisCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

func (c *RedisCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx, cancel := c.opContext()
	defer cancel()
	c.client.Set(ctx, c.prefix+key, data, ttl)
}

func (c *RedisCache) Delete(key string) {
	ctx, cancel := c.opContext()
	defer cancel()
	c.client.Del(ctx, c.prefix+key)
}

// Clear removes every key under the prefix, leaving other tenants alone.
func (c *RedisCache) Clear() {
	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", clearBatch).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			c.client.Del(ctx, keys...)
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// Client exposes the connection so the outbound limiter can share it.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
