package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares the per-host interval across every replica that points
// at the same Redis.
type RedisLimiter struct {
	client      *redis.Client
	prefix      string
	minInterval time.Duration
}

func NewRedis(client *redis.Client, prefix string, minInterval time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "headlinehub:ratelimit:"
	}
	return &RedisLimiter{
		client:      client,
		prefix:      prefix,
		minInterval: minInterval,
	}
}

// Allow claims the slot for host. If Redis is unreachable the request is allowed.
func (l *RedisLimiter) Allow(host string) bool {
	ok, _ := l.claim(context.Background(), host)
	return ok
}

func (l *RedisLimiter) Wait(ctx context.Context, host string) error {
	for {
		ok, err := l.claim(ctx, host)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// Redis trouble fails open.
			return nil
		}
		if ok {
			return nil
		}

		delay := l.minInterval
		if ttl, err := l.client.PTTL(ctx, l.prefix+host).Result(); err == nil && ttl > 0 && ttl < delay {
			delay = ttl
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLimiter) claim(ctx context.Context, host string) (bool, error) {
	if l.minInterval <= 0 {
		return true, nil
	}
	ok, err := l.client.SetNX(ctx, l.prefix+host, 1, l.minInterval).Result()
	if err != nil {
		return true, err
	}
	return ok, nil
}

var _ RateLimiter = (*RedisLimiter)(nil)
