package codec

import "time"

// timestampLayouts are tried in order: full RFC 3339 (covers the trailing
// "Z" the upstream API emits), then offset-less and date-only forms.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp into a comparable instant.
// Empty or malformed input yields the zero time.Time, the minimum
// representable instant. A record with an unparseable date therefore passes
// any end-date bound but fails any non-trivial start-date bound; callers
// depend on exactly this asymmetry.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
