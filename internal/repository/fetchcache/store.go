package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Hylst/YoutubeDataCrawler/internal/db"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// store is the consumer interface for fetch caching (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// quotaTTL keeps daily quota counters around past midnight rollover.
const quotaTTL = 48 * time.Hour

// Store caches fetched record collections and tracks daily metadata-source
// quota usage (INCRBY + GET with TTL).
type Store struct {
	store     store
	keyPrefix string
	cacheTTL  time.Duration
}

// New creates a fetch cache. cacheTTL bounds how long fetched metadata is
// served without hitting the source again.
func New(s store, keyPrefix string, cacheTTL time.Duration) *Store {
	return &Store{store: s, keyPrefix: keyPrefix, cacheTTL: cacheTTL}
}

// Get returns the cached records for a request key. The found flag is false
// on a cache miss.
func (s *Store) Get(ctx context.Context, requestKey string) ([]record.Record, bool, error) {
	data, err := s.store.Get(ctx, s.cacheKey(requestKey))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache GET %s: %w", requestKey, err)
	}

	var records []record.Record
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		return nil, false, nil
	}
	return records, true, nil
}

// Put caches the records for a request key with the configured TTL.
func (s *Store) Put(ctx context.Context, requestKey string, records []record.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", requestKey, err)
	}
	if err := s.store.SetWithTTL(ctx, s.cacheKey(requestKey), data, s.cacheTTL); err != nil {
		return fmt.Errorf("cache SET %s: %w", requestKey, err)
	}
	return nil
}

// AddQuota atomically adds API units to today's quota counter. The TTL is
// set only on first use of the key (NX, not reset on repeat).
func (s *Store) AddQuota(ctx context.Context, day string, units int64) error {
	key := s.quotaKey(day)
	if err := s.store.IncrBy(ctx, key, units); err != nil {
		return fmt.Errorf("quota INCRBY %s: %w", key, err)
	}
	if err := s.store.Expire(ctx, key, quotaTTL, true); err != nil {
		return fmt.Errorf("quota EXPIRE %s: %w", key, err)
	}
	return nil
}

// Quota returns today's consumed API units. Returns 0 if the counter does
// not exist yet.
func (s *Store) Quota(ctx context.Context, day string) (int64, error) {
	data, err := s.store.Get(ctx, s.quotaKey(day))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("quota GET %s: %w", day, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quota GET %s parse: %w", day, err)
	}
	return val, nil
}

// Redis key patterns: <prefix>cache:{key}, <prefix>quota:{day}

func (s *Store) cacheKey(requestKey string) string {
	return fmt.Sprintf("%scache:%s", s.keyPrefix, requestKey)
}

func (s *Store) quotaKey(day string) string {
	return fmt.Sprintf("%squota:%s", s.keyPrefix, day)
}
