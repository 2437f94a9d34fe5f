package sources

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/johnrirwin/headlinehub/internal/cache"
	"github.com/johnrirwin/headlinehub/internal/metrics"
	"github.com/johnrirwin/headlinehub/internal/models"
)

// sharedFetchTimeout bounds a fill that no longer follows any single caller's
// context.
const sharedFetchTimeout = 2 * time.Minute

// CachedFetcher serves raw records from a cache for one TTL-aligned window.
// Concurrent misses for the same window share a single upstream fetch.
type CachedFetcher struct {
	Fetcher
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
	now   func() time.Time
}

func NewCachedFetcher(fetcher Fetcher, c cache.Cache, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedFetcher{
		Fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (f *CachedFetcher) key() string {
	bucket := f.now().Truncate(f.ttl).Unix()
	return fmt.Sprintf("raw:%s:%d", f.Tag(), bucket)
}

func (f *CachedFetcher) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	key := f.key()
	provider := string(f.Tag())

	if value, ok := f.cache.Get(key); ok {
		var records []models.RawRecord
		if err := cache.Decode(value, &records); err == nil {
			metrics.RecordCacheHit(provider)
			return records, nil
		}
		f.cache.Delete(key)
	}
	metrics.RecordCacheMiss(provider)

	// The fill runs detached so one caller giving up does not fail the others
	// waiting on it; each caller still stops waiting when its own ctx ends.
	ch := f.group.DoChan(key, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		records, err := f.Fetcher.Fetch(fillCtx)
		if err != nil {
			return nil, err
		}
		f.cache.SetWithTTL(key, records, f.ttl)
		return records, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	// Callers own their slice.
	shared := res.Val.([]models.RawRecord)
	records := make([]models.RawRecord, len(shared))
	copy(records, shared)
	return records, nil
}

// Unwrap returns the wrapped fetcher.
func (f *CachedFetcher) Unwrap() Fetcher {
	return f.Fetcher
}
