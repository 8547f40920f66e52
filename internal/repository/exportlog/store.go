package exportlog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Hylst/YoutubeDataCrawler/internal/usecase/export"
)

// store is the consumer interface for the export log (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Store implements usecase/export.History over Redis hashes, one hash per
// recorded export.
type Store struct {
	store     store
	keyPrefix string
}

// New creates an export log store.
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, keyPrefix: keyPrefix}
}

// Append records a completed export.
func (s *Store) Append(ctx context.Context, e export.Entry) error {
	fields := map[string]string{
		"id":         e.ID,
		"format":     e.Format,
		"file_path":  e.FilePath,
		"item_count": strconv.Itoa(e.ItemCount),
		"created_at": strconv.FormatInt(e.CreatedAt, 10),
	}
	if err := s.store.HSet(ctx, s.key(e.ID), fields); err != nil {
		return fmt.Errorf("hset export %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit exports, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]export.Entry, error) {
	keys, err := s.store.Scan(ctx, s.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan exports: %w", err)
	}
	if len(keys) == 0 {
		return []export.Entry{}, nil
	}

	results, err := s.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi exports: %w", err)
	}

	entries := make([]export.Entry, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		entries = append(entries, entryFromHash(m))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func entryFromHash(m map[string]string) export.Entry {
	count, _ := strconv.Atoi(m["item_count"])
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return export.Entry{
		ID:        m["id"],
		Format:    m["format"],
		FilePath:  m["file_path"],
		ItemCount: count,
		CreatedAt: createdAt,
	}
}

// Redis key pattern: <prefix>export:{id}

func (s *Store) key(id string) string {
	return fmt.Sprintf("%sexport:%s", s.keyPrefix, id)
}
