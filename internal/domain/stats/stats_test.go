package stats

import (
	"math"
	"testing"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

func records(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{}
	}
	return out
}

func TestCompute(t *testing.T) {
	s := Compute(records(3), records(2))

	if s.OriginalCount != 3 || s.FilteredCount != 2 || s.RemovedCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if math.Abs(s.RetentionRate-66.67) > 0.01 {
		t.Errorf("retention rate = %v, want 66.67", s.RetentionRate)
	}
}

func TestComputeEmptyOriginal(t *testing.T) {
	s := Compute(nil, nil)

	if s.RetentionRate != 0 {
		t.Errorf("retention rate for empty input = %v, want 0", s.RetentionRate)
	}
	if s.OriginalCount != 0 || s.FilteredCount != 0 || s.RemovedCount != 0 {
		t.Errorf("unexpected counts: %+v", s)
	}
}

func TestComputeNotClamped(t *testing.T) {
	// A filtered set larger than the original is caller misuse; the rate
	// exceeding 100 is surfaced rather than masked.
	s := Compute(records(2), records(4))

	if s.RetentionRate != 200 {
		t.Errorf("retention rate = %v, want 200", s.RetentionRate)
	}
	if s.RemovedCount != -2 {
		t.Errorf("removed count = %d, want -2", s.RemovedCount)
	}
}
