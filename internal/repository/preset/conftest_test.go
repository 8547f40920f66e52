package preset

import (
	"context"
	"testing"

	"github.com/Hylst/YoutubeDataCrawler/internal/db"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

const testPrefix = "ytcrawler:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testPrefix), ms
}

func testPreset(t *testing.T, id string, createdAt int64) dompreset.Preset {
	t.Helper()
	minViews := int64(1000)
	cs, err := criteria.New(criteria.Params{
		MinDuration:     "PT1M",
		MinViews:        &minViews,
		IncludeKeywords: []string{"go"},
	})
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	return dompreset.Reconstruct(id, dompreset.Attributes{
		Name:        "Long-form Go",
		Description: "videos over a minute",
		ContentType: content.Video,
		Fields:      []string{"title", "view_count"},
		Criteria:    cs,
		TextModel:   "gpt-4",
		ImageModel:  "stable-diffusion",
		Format:      domain.FormatMarkdown,
		UITemplate:  "standard",
		IsDefault:   true,
	}, createdAt, createdAt)
}
