package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Hylst/YoutubeDataCrawler/internal/db"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	incrByFn     func(ctx context.Context, key string, val int64) error
	expireFn     func(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) error {
	if m.incrByFn != nil {
		return m.incrByFn(ctx, key, val)
	}
	return nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireFn != nil {
		return m.expireFn(ctx, key, ttl, nx)
	}
	return nil
}

func TestGet_Miss(t *testing.T) {
	s := New(&mockStore{}, "ytcrawler:", time.Hour)

	_, found, err := s.Get(context.Background(), "video:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected miss")
	}
}

func TestPutThenGet(t *testing.T) {
	stored := map[string][]byte{}
	ms := &mockStore{
		setWithTTLFn: func(_ context.Context, key string, value []byte, ttl time.Duration) error {
			if ttl != time.Hour {
				t.Errorf("ttl = %v", ttl)
			}
			stored[key] = value
			return nil
		},
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := stored[key]; ok {
				return v, nil
			}
			return nil, db.ErrKeyNotFound
		},
	}
	s := New(ms, "ytcrawler:", time.Hour)
	ctx := context.Background()

	records := []record.Record{{"video_id": "v1", "title": "Intro"}}
	if err := s.Put(ctx, "video:abc", records); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := stored["ytcrawler:cache:video:abc"]; !ok {
		t.Fatalf("unexpected keys: %v", stored)
	}

	got, found, err := s.Get(ctx, "video:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || len(got) != 1 || got[0].String("video_id") != "v1" {
		t.Errorf("got %v found=%v", got, found)
	}
}

func TestGet_CorruptEntryBehavesLikeMiss(t *testing.T) {
	ms := &mockStore{
		getFn: func(context.Context, string) ([]byte, error) {
			return []byte("not json"), nil
		},
	}
	s := New(ms, "ytcrawler:", time.Hour)

	_, found, err := s.Get(context.Background(), "video:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("corrupt entry should be a miss")
	}
}

func TestAddQuota(t *testing.T) {
	var incrKey string
	var incrVal int64
	var expireNX bool
	ms := &mockStore{
		incrByFn: func(_ context.Context, key string, val int64) error {
			incrKey = key
			incrVal = val
			return nil
		},
		expireFn: func(_ context.Context, key string, _ time.Duration, nx bool) error {
			if key != incrKey {
				t.Errorf("expire key %q != incr key %q", key, incrKey)
			}
			expireNX = nx
			return nil
		},
	}
	s := New(ms, "ytcrawler:", time.Hour)

	if err := s.AddQuota(context.Background(), "2024-05-01", 100); err != nil {
		t.Fatalf("AddQuota: %v", err)
	}
	if incrKey != "ytcrawler:quota:2024-05-01" || incrVal != 100 {
		t.Errorf("INCRBY %q %d", incrKey, incrVal)
	}
	if !expireNX {
		t.Error("quota TTL must use NX so repeats do not reset it")
	}
}

func TestQuota(t *testing.T) {
	ms := &mockStore{
		getFn: func(context.Context, string) ([]byte, error) {
			return []byte("4200"), nil
		},
	}
	s := New(ms, "ytcrawler:", time.Hour)

	got, err := s.Quota(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatalf("Quota: %v", err)
	}
	if got != 4200 {
		t.Errorf("quota = %d", got)
	}
}

func TestQuota_MissingCounterIsZero(t *testing.T) {
	s := New(&mockStore{}, "ytcrawler:", time.Hour)

	got, err := s.Quota(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatalf("Quota: %v", err)
	}
	if got != 0 {
		t.Errorf("quota = %d, want 0", got)
	}
}

func TestQuota_ParseError(t *testing.T) {
	ms := &mockStore{
		getFn: func(context.Context, string) ([]byte, error) {
			return []byte("many"), nil
		},
	}
	s := New(ms, "ytcrawler:", time.Hour)

	if _, err := s.Quota(context.Background(), "2024-05-01"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPut_JSONRoundTripError(t *testing.T) {
	s := New(&mockStore{}, "ytcrawler:", time.Hour)

	// Records holding unencodable values fail loudly at Put time.
	bad := []record.Record{{"ch": make(chan int)}}
	if err := s.Put(context.Background(), "k", bad); err == nil {
		t.Fatal("expected encode error")
	}
	var jsonErr *json.UnsupportedTypeError
	if err := s.Put(context.Background(), "k", bad); !errors.As(err, &jsonErr) {
		t.Errorf("expected UnsupportedTypeError, got %v", err)
	}
}
