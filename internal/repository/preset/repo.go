package preset

import (
	"context"
	"fmt"
	"sort"

	"github.com/Hylst/YoutubeDataCrawler/internal/db"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

// store is the consumer interface for presets (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/preset.Repository over Redis hashes.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a preset repository. keyPrefix namespaces all keys, e.g.
// "ytcrawler:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Insert stores a new preset.
func (r *Repo) Insert(ctx context.Context, p dompreset.Preset) error {
	key := r.key(p.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	fields, err := presetToHash(p)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset preset %s: %w", p.ID(), err)
	}
	return nil
}

// InsertMany stores several presets in one pipelined write. Existing keys are
// overwritten, so callers reserve it for bulk installs into an empty registry.
func (r *Repo) InsertMany(ctx context.Context, presets []dompreset.Preset) error {
	if len(presets) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(presets))
	for _, p := range presets {
		fields, err := presetToHash(p)
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: r.key(p.ID()), Fields: fields})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset presets: %w", err)
	}
	return nil
}

// Update overwrites an existing preset.
func (r *Repo) Update(ctx context.Context, p dompreset.Preset) error {
	key := r.key(p.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	fields, err := presetToHash(p)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset preset %s: %w", p.ID(), err)
	}
	return nil
}

// GetByID retrieves a preset.
func (r *Repo) GetByID(ctx context.Context, id string) (dompreset.Preset, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("hgetall preset %s: %w", id, err)
	}
	if len(m) == 0 {
		return dompreset.Preset{}, domain.ErrNotFound
	}
	return presetFromHash(m)
}

// GetAll returns every preset sorted by CreatedAt.
func (r *Repo) GetAll(ctx context.Context) ([]dompreset.Preset, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan presets: %w", err)
	}
	if len(keys) == 0 {
		return []dompreset.Preset{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi presets: %w", err)
	}

	presets := make([]dompreset.Preset, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		p, err := presetFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse preset %s: %w", keys[i], err)
		}
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].CreatedAt() < presets[j].CreatedAt()
	})
	return presets, nil
}

// Delete removes a preset.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del preset %s: %w", id, err)
	}
	return nil
}

// Redis key pattern: <prefix>preset:{id}

func (r *Repo) key(id string) string {
	return fmt.Sprintf("%spreset:%s", r.keyPrefix, id)
}
