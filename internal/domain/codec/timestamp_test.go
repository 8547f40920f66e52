package codec

import (
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	later := ParseTimestamp("2024-01-15T10:30:00Z")
	earlier := ParseTimestamp("2024-01-01T00:00:00Z")

	if !later.After(earlier) {
		t.Errorf("expected %v after %v", later, earlier)
	}

	dateOnly := ParseTimestamp("2024-01-01")
	if !dateOnly.Equal(earlier) {
		t.Errorf("date-only parse = %v, want %v", dateOnly, earlier)
	}

	offsetless := ParseTimestamp("2024-01-15T10:30:00")
	if !offsetless.Equal(later) {
		t.Errorf("offset-less parse = %v, want %v", offsetless, later)
	}
}

func TestParseTimestampSentinel(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2024-13-45T99:99:99Z"} {
		got := ParseTimestamp(input)
		if !got.IsZero() {
			t.Errorf("ParseTimestamp(%q) = %v, want zero sentinel", input, got)
		}
	}

	// The sentinel is below any real instant, so unparseable dates fail
	// start-date bounds but pass end-date bounds.
	bound := ParseTimestamp("2024-01-01T00:00:00Z")
	if !ParseTimestamp("garbage").Before(bound) {
		t.Error("sentinel should sort before any parseable date")
	}
}
