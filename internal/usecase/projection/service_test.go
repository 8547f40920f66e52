package projection

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

func makePreset(t *testing.T, ct content.Type, fields []string) preset.Preset {
	t.Helper()
	p, err := preset.New("p-1", preset.Attributes{
		Name: "test", ContentType: ct, Fields: fields,
	}, 1700000000)
	if err != nil {
		t.Fatalf("preset.New: %v", err)
	}
	return p
}

func TestProjectAllowList(t *testing.T) {
	svc := New(zap.NewNop())
	rec := record.Record{
		"video_id": "v1", "title": "Intro", "description": "long text",
		"view_count": 500, "duration": "PT4M",
	}
	p := makePreset(t, content.Video, []string{"title", "view_count"})

	got := svc.Project(rec, p)

	want := record.Record{"video_id": "v1", "title": "Intro", "view_count": 500}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Project = %v, want %v", got, want)
	}
}

func TestProjectCarriesIdentityField(t *testing.T) {
	svc := New(zap.NewNop())

	tests := []struct {
		ct      content.Type
		idField string
	}{
		{content.Video, "video_id"},
		{content.Channel, "channel_id"},
		{content.Playlist, "playlist_id"},
	}
	for _, tt := range tests {
		rec := record.Record{tt.idField: "id-1", "title": "x", "extra": 1}
		got := svc.Project(rec, makePreset(t, tt.ct, []string{"title"}))
		if got.String(tt.idField) != "id-1" {
			t.Errorf("%s: identity field dropped: %v", tt.ct, got)
		}
		if got.Has("extra") {
			t.Errorf("%s: unlisted field kept: %v", tt.ct, got)
		}
	}
}

func TestProjectEmptyAllowListClonesWholeRecord(t *testing.T) {
	svc := New(zap.NewNop())
	rec := record.Record{"video_id": "v1", "title": "Intro", "view_count": 500}

	got := svc.Project(rec, makePreset(t, content.Video, nil))

	if !reflect.DeepEqual(got, rec) {
		t.Errorf("Project = %v, want full record", got)
	}
	got["title"] = "mutated"
	if rec.String("title") != "Intro" {
		t.Error("Project must return a copy, not the original")
	}
}

func TestProjectSkipsMissingFields(t *testing.T) {
	svc := New(zap.NewNop())
	rec := record.Record{"video_id": "v1", "title": "Intro"}

	got := svc.Project(rec, makePreset(t, content.Video, []string{"title", "like_count"}))

	if got.Has("like_count") {
		t.Errorf("absent field materialized: %v", got)
	}
	if got.String("title") != "Intro" {
		t.Errorf("present field dropped: %v", got)
	}
}

func TestProjectAllPreservesOrderAndInput(t *testing.T) {
	svc := New(zap.NewNop())
	records := []record.Record{
		{"video_id": "v1", "title": "a", "view_count": 1},
		{"video_id": "v2", "title": "b", "view_count": 2},
	}
	p := makePreset(t, content.Video, []string{"title"})

	got := svc.ProjectAll(records, p)

	if len(got) != 2 || got[0].String("video_id") != "v1" || got[1].String("video_id") != "v2" {
		t.Fatalf("order not preserved: %v", got)
	}
	if !records[0].Has("view_count") {
		t.Error("ProjectAll mutated an input record")
	}
}
