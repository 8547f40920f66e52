package preset

import (
	"testing"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset/patch"
)

const testNow = int64(1700000000)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func makePreset(t *testing.T, at Attributes) Preset {
	t.Helper()
	p, err := New("p-1", at, testNow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewDefaults(t *testing.T) {
	p := makePreset(t, Attributes{Name: "Basics", ContentType: content.Video})

	if p.Format() != domain.FormatMarkdown {
		t.Errorf("Format = %q, want markdown default", p.Format())
	}
	if p.UITemplate() != DefaultUITemplate {
		t.Errorf("UITemplate = %q, want %q", p.UITemplate(), DefaultUITemplate)
	}
	if p.CreatedAt() != testNow || p.UpdatedAt() != testNow {
		t.Errorf("timestamps = %d/%d", p.CreatedAt(), p.UpdatedAt())
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		id   string
		at   Attributes
	}{
		{"missing id", "", Attributes{Name: "x", ContentType: content.Video}},
		{"missing name", "p-1", Attributes{ContentType: content.Video}},
		{"bad content type", "p-1", Attributes{Name: "x", ContentType: content.Type("podcast")}},
		{"bad format", "p-1", Attributes{Name: "x", ContentType: content.Video, Format: "xlsx"}},
	}
	for _, tt := range tests {
		if _, err := New(tt.id, tt.at, testNow); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestFieldsAreCopied(t *testing.T) {
	fields := []string{"title", "duration"}
	p := makePreset(t, Attributes{Name: "x", ContentType: content.Video, Fields: fields})

	fields[0] = "mutated"
	if p.Fields()[0] != "title" {
		t.Error("preset should not share storage with caller slices")
	}
}

func TestApplyPatch(t *testing.T) {
	p := makePreset(t, Attributes{Name: "Basics", ContentType: content.Video})

	pt, err := patch.New(patch.Params{Name: strPtr("Renamed"), IsDefault: boolPtr(true)})
	if err != nil {
		t.Fatalf("patch.New: %v", err)
	}

	updated, err := p.Apply(pt, testNow+60)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if updated.Name() != "Renamed" {
		t.Errorf("Name = %q", updated.Name())
	}
	if !updated.IsDefault() {
		t.Error("IsDefault should be true after patch")
	}
	if updated.ContentType() != content.Video {
		t.Errorf("ContentType changed to %q", updated.ContentType())
	}
	if updated.CreatedAt() != testNow {
		t.Errorf("CreatedAt changed to %d", updated.CreatedAt())
	}
	if updated.UpdatedAt() != testNow+60 {
		t.Errorf("UpdatedAt = %d, want %d", updated.UpdatedAt(), testNow+60)
	}
	// Original stays untouched.
	if p.Name() != "Basics" || p.IsDefault() {
		t.Error("Apply mutated the original preset")
	}
}

func TestApplyPatchRejectsInvalid(t *testing.T) {
	p := makePreset(t, Attributes{Name: "Basics", ContentType: content.Video})

	pt, err := patch.New(patch.Params{ContentType: strPtr("podcast")})
	if err != nil {
		t.Fatalf("patch.New: %v", err)
	}
	if _, err := p.Apply(pt, testNow); err == nil {
		t.Fatal("expected error for invalid content type")
	}
}

func TestWithDefault(t *testing.T) {
	p := makePreset(t, Attributes{Name: "Basics", ContentType: content.Video, IsDefault: true})

	demoted := p.WithDefault(false, testNow+10)
	if demoted.IsDefault() {
		t.Error("expected default flag cleared")
	}
	if demoted.UpdatedAt() != testNow+10 {
		t.Errorf("UpdatedAt = %d", demoted.UpdatedAt())
	}
	if !p.IsDefault() {
		t.Error("WithDefault mutated the original")
	}
}
