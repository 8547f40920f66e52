package preset

import (
	"context"
	"errors"
	"testing"

	"github.com/Hylst/YoutubeDataCrawler/internal/db"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

func TestInsert_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	p := testPreset(t, "p-1", 1700000000)
	if err := repo.Insert(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "ytcrawler:preset:p-1" {
		t.Errorf("key = %q", gotKey)
	}
	if gotFields["name"] != "Long-form Go" || gotFields["is_default"] != "1" {
		t.Errorf("fields = %v", gotFields)
	}
}

func TestInsert_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }

	err := repo.Insert(context.Background(), testPreset(t, "p-1", 1700000000))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestInsertMany_PipelinesAllPresets(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotItems []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		gotItems = items
		return nil
	}

	presets := []dompreset.Preset{
		testPreset(t, "p-1", 1700000000),
		testPreset(t, "p-2", 1700000100),
	}
	if err := repo.InsertMany(context.Background(), presets); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotItems) != 2 {
		t.Fatalf("items = %d, want 2", len(gotItems))
	}
	if gotItems[0].Key != "ytcrawler:preset:p-1" || gotItems[1].Key != "ytcrawler:preset:p-2" {
		t.Errorf("keys = %q, %q", gotItems[0].Key, gotItems[1].Key)
	}
	if gotItems[0].Fields["name"] != "Long-form Go" {
		t.Errorf("fields = %v", gotItems[0].Fields)
	}
}

func TestInsertMany_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetMultiFn = func(context.Context, []db.HashSetItem) error {
		t.Error("HSetMulti called for an empty batch")
		return nil
	}

	if err := repo.InsertMany(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetByID_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	want := testPreset(t, "p-1", 1700000000)

	stored, err := presetToHash(want)
	if err != nil {
		t.Fatalf("presetToHash: %v", err)
	}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "ytcrawler:preset:p-1" {
			t.Errorf("key = %q", key)
		}
		return stored, nil
	}

	got, err := repo.GetByID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "p-1" || got.Name() != want.Name() {
		t.Errorf("got %q/%q", got.ID(), got.Name())
	}
	if got.ContentType() != want.ContentType() || got.Format() != want.Format() {
		t.Errorf("type/format = %q/%q", got.ContentType(), got.Format())
	}
	if !got.IsDefault() {
		t.Error("default flag lost")
	}
	if len(got.Fields()) != 2 || got.Fields()[0] != "title" {
		t.Errorf("fields = %v", got.Fields())
	}
	cs := got.Criteria()
	if cs.MinDuration() == nil || *cs.MinDuration() != 60 {
		t.Errorf("min duration = %v", cs.MinDuration())
	}
	if cs.MinViews() == nil || *cs.MinViews() != 1000 {
		t.Errorf("min views = %v", cs.MinViews())
	}
	if got.CreatedAt() != 1700000000 || got.UpdatedAt() != 1700000000 {
		t.Errorf("timestamps = %d/%d", got.CreatedAt(), got.UpdatedAt())
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAll_SortedByCreatedAt(t *testing.T) {
	repo, ms := newTestRepo(t)

	second, err := presetToHash(testPreset(t, "p-2", 1700000200))
	if err != nil {
		t.Fatalf("presetToHash: %v", err)
	}
	first, err := presetToHash(testPreset(t, "p-1", 1700000100))
	if err != nil {
		t.Fatalf("presetToHash: %v", err)
	}

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "ytcrawler:preset:*" {
			t.Errorf("pattern = %q", pattern)
		}
		return []string{"ytcrawler:preset:p-2", "ytcrawler:preset:p-1"}, nil
	}
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return []map[string]string{second, first}, nil
	}

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID() != "p-1" || got[1].ID() != "p-2" {
		t.Errorf("order = %q, %q", got[0].ID(), got[1].ID())
	}
}

func TestGetAll_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
}

func TestGetAll_SkipsVanishedKeys(t *testing.T) {
	repo, ms := newTestRepo(t)

	stored, err := presetToHash(testPreset(t, "p-1", 1700000000))
	if err != nil {
		t.Fatalf("presetToHash: %v", err)
	}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"ytcrawler:preset:p-1", "ytcrawler:preset:gone"}, nil
	}
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		// A key deleted between SCAN and HGETALL yields an empty map.
		return []map[string]string{stored, {}}, nil
	}

	got, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Update(context.Background(), testPreset(t, "missing", 1700000000))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }

	called := false
	ms.hsetFn = func(context.Context, string, map[string]string) error {
		called = true
		return nil
	}

	if err := repo.Update(context.Background(), testPreset(t, "p-1", 1700000000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("HSet not called")
	}
}

func TestDelete_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }

	var gotKey string
	ms.delFn = func(_ context.Context, key string) error {
		gotKey = key
		return nil
	}

	if err := repo.Delete(context.Background(), "p-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "ytcrawler:preset:p-1" {
		t.Errorf("key = %q", gotKey)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
