package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// --- Mocks ---

type mockHistory struct {
	appended  []Entry
	recent    []Entry
	appendErr error
	recentErr error
}

func (m *mockHistory) Append(_ context.Context, e Entry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, e)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, _ int) ([]Entry, error) {
	return m.recent, m.recentErr
}

func newTestService(t *testing.T, history History) *Service {
	t.Helper()
	svc, err := New(t.TempDir(), history, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	svc.now = func() time.Time {
		return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func sampleVideos() []record.Record {
	return []record.Record{
		{
			"video_id": "v1", "title": "Intro to Go", "channel_title": "GoTime",
			"duration": "PT4M30S", "view_count": 1234567, "like_count": 89,
			"published_at": "2024-02-10T08:00:00Z", "language": "en",
			"description": "a gentle tour",
		},
		{
			"video_id": "v2", "title": "Concurrency", "channel_title": "GoTime",
			"duration": "PT25M", "view_count": 500, "like_count": 40,
			"published_at": "2024-03-01T08:00:00Z", "language": "en",
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

// --- Tests ---

func TestExportJSON(t *testing.T) {
	history := &mockHistory{}
	svc := newTestService(t, history)

	res, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatJSON,
		Filename:    "out",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(res.FilePath) != "out.json" {
		t.Errorf("path = %q", res.FilePath)
	}
	if res.ItemCount != 2 {
		t.Errorf("item count = %d", res.ItemCount)
	}

	var envelope struct {
		ExportInfo struct {
			TotalItems int    `json:"total_items"`
			Format     string `json:"format"`
		} `json:"export_info"`
		Data []record.Record `json:"data"`
	}
	if err := json.Unmarshal([]byte(readFile(t, res.FilePath)), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.ExportInfo.TotalItems != 2 || envelope.ExportInfo.Format != "json" {
		t.Errorf("export_info = %+v", envelope.ExportInfo)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].String("video_id") != "v1" {
		t.Errorf("data = %v", envelope.Data)
	}

	if len(history.appended) != 1 || history.appended[0].Format != "json" {
		t.Errorf("history = %+v", history.appended)
	}
}

func TestExportMarkdown(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatMarkdown,
		Filename:    "out",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(res.FilePath) != "out.md" {
		t.Errorf("path = %q", res.FilePath)
	}

	got := readFile(t, res.FilePath)
	for _, want := range []string{
		"# Video Export",
		"**Item count:** 2",
		"## 1. Intro to Go",
		"**Views:** 1 234 567",
		"**Published:** 10/02/2024",
		"https://youtube.com/watch?v=v1",
		"## 2. Concurrency",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q\n%s", want, got)
		}
	}
	// v2 has no description; the placeholder must not leak.
	if strings.Contains(got, "{description}") {
		t.Error("unfilled placeholder leaked into output")
	}
}

func TestExportMarkdownCustomTemplate(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos()[:1],
		ContentType: content.Video,
		Format:      domain.FormatMarkdown,
		Filename:    "out",
		Template:    "watch {video_id} by {channel_title}",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := readFile(t, res.FilePath); !strings.Contains(got, "watch v1 by GoTime") {
		t.Errorf("custom template not applied:\n%s", got)
	}
}

func TestExportText(t *testing.T) {
	svc := newTestService(t, nil)

	tests := []struct {
		style Style
		want  []string
	}{
		{StyleSimple, []string{"URL: https://youtube.com/watch?v=v1", "Channel: GoTime"}},
		{StyleDetailed, []string{"Video ID: v1", "Views: 1 234 567", "Description: a gentle tour"}},
		{StyleCompact, []string{"GoTime | 1 234 567 views"}},
		// Empty style falls back to detailed.
		{"", []string{"Video ID: v1"}},
	}
	for _, tt := range tests {
		res, err := svc.Export(context.Background(), Request{
			Records:     sampleVideos(),
			ContentType: content.Video,
			Format:      domain.FormatText,
			Filename:    "out_" + string(tt.style),
			TextStyle:   tt.style,
		})
		if err != nil {
			t.Fatalf("style %q: %v", tt.style, err)
		}
		got := readFile(t, res.FilePath)
		if !strings.Contains(got, "VIDEO EXPORT") {
			t.Errorf("style %q: missing header\n%s", tt.style, got)
		}
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("style %q: missing %q\n%s", tt.style, want, got)
			}
		}
	}
}

func TestExportTextUnknownStyle(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatText,
		TextStyle:   Style("fancy"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatCSV,
		Filename:    "out",
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	got := readFile(t, res.FilePath)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d\n%s", len(lines), got)
	}
	if lines[0] != "video_id,title,channel_title,duration,view_count,like_count,comment_count,published_at,language" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "v1,Intro to Go,GoTime,PT4M30S,1234567,89,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Export(context.Background(), Request{
		ContentType: content.Video,
		Format:      domain.FormatCSV,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.ExportFormat("xlsx"),
	})
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportDefaultFilename(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatJSON,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(res.FilePath) != "export_video_20240501_103000.json" {
		t.Errorf("path = %q", res.FilePath)
	}
}

func TestExportHistoryAppendFailureDoesNotFailExport(t *testing.T) {
	history := &mockHistory{appendErr: errors.New("log down")}
	svc := newTestService(t, history)

	if _, err := svc.Export(context.Background(), Request{
		Records:     sampleVideos(),
		ContentType: content.Video,
		Format:      domain.FormatJSON,
	}); err != nil {
		t.Fatalf("export should survive a log failure: %v", err)
	}
}

func TestHistory(t *testing.T) {
	history := &mockHistory{recent: []Entry{{ID: "e1", Format: "json"}}}
	svc := newTestService(t, history)

	got, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("entries = %+v", got)
	}
}

func TestHistoryWithoutSink(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entries = %+v", got)
	}
}

func TestCSVCellValues(t *testing.T) {
	rec := record.Record{
		"title":      "Intro",
		"tags":       []string{"go", "tips"},
		"view_count": float64(4200), // numbers decode as float64 from JSON
		"like_count": int64(89),
		"rating":     4.5,
	}
	tests := []struct{ field, want string }{
		{"title", "Intro"},
		{"tags", "go;tips"},
		{"view_count", "4200"},
		{"like_count", "89"},
		{"rating", "4.5"},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := cellValue(rec, tt.field); got != tt.want {
			t.Errorf("cellValue(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("é", 250)
	got := truncate(long, 200)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("é", 200) + "..."; got != want {
		t.Errorf("got %d runes, want 203", utf8.RuneCountInString(got))
	}
	if truncate("short", 200) != "short" {
		t.Error("strings within the limit should pass through unchanged")
	}
}

func TestExportTextMultiByteDescription(t *testing.T) {
	svc := newTestService(t, nil)

	recs := sampleVideos()[:1]
	recs[0]["description"] = strings.Repeat("ありがとう", 60)

	res, err := svc.Export(context.Background(), Request{
		Records:     recs,
		ContentType: content.Video,
		Format:      domain.FormatText,
		Filename:    "out",
		TextStyle:   StyleDetailed,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := readFile(t, res.FilePath); !utf8.ValidString(got) {
		t.Error("text export contains invalid UTF-8")
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{1234567, "1 234 567"},
		{-42000, "-42 000"},
	}
	for _, tt := range tests {
		if got := groupDigits(tt.in); got != tt.want {
			t.Errorf("groupDigits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
