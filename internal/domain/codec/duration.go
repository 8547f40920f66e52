package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO 8601 broadcast duration (PT#H#M#S, each
// component optional) to total seconds. Empty or malformed input yields 0:
// an unknown duration, never an error.
func ParseDuration(s string) int64 {
	if s == "" {
		return 0
	}

	m := durationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	hours := parseComponent(m[1])
	minutes := parseComponent(m[2])
	seconds := parseComponent(m[3])

	return hours*3600 + minutes*60 + seconds
}

// FormatDuration renders seconds as a canonical ISO 8601 duration.
// Zero-valued components are omitted; 0 seconds renders as "PT0S".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "PT0S"
	}

	var b strings.Builder
	b.WriteString("PT")
	if h := seconds / 3600; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m := (seconds % 3600) / 60; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s := seconds % 60; s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}

func parseComponent(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
