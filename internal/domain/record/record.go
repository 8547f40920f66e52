package record

import "encoding/json"

// Record is one fetched video, channel, or playlist as an open field map.
// Upstream data is known to be partial, so accessors default on missing or
// mistyped fields instead of failing. Consumers treat records as read-only:
// filtering and projection always produce new records or collections.
type Record map[string]any

// String returns the field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the field as an int64, or 0 if absent or non-numeric.
// JSON decoding yields float64 for numbers, so all numeric widths convert.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return 0
}

// Float returns the field as a float64, or 0 if absent or non-numeric.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

// Strings returns the field as a string list. It tolerates []string,
// []any with string elements, and a JSON-encoded array stored as a string
// (the shape the upstream tags column arrives in). Anything else yields nil.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		if json.Unmarshal([]byte(v), &out) == nil {
			return out
		}
	}
	return nil
}

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
