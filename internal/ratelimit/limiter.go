package ratelimit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces out requests to the same host.
type RateLimiter interface {
	Allow(host string) bool
	Wait(ctx context.Context, host string) error
}

// Limiter enforces a minimum interval between requests per host, in process.
type Limiter struct {
	mu          sync.Mutex
	hosts       map[string]*rate.Limiter
	minInterval time.Duration
}

func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		hosts:       make(map[string]*rate.Limiter),
		minInterval: minInterval,
	}
}

func (l *Limiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.minInterval), 1)
		l.hosts[host] = lim
	}
	return lim
}

// Allow reports whether a request to host may go out now. A refused call does
// not push the next slot back.
func (l *Limiter) Allow(host string) bool {
	return l.limiterFor(host).Allow()
}

// Wait blocks until a request to host may go out or ctx is done.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.limiterFor(host).Wait(ctx)
}

// HostOf returns the host part of rawURL, or rawURL itself when it does not parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

var _ RateLimiter = (*Limiter)(nil)
