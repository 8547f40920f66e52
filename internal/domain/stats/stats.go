package stats

import "github.com/Hylst/YoutubeDataCrawler/internal/domain/record"

// Summary describes how much of a record set survived a filter pass.
type Summary struct {
	OriginalCount int     `json:"original_count"`
	FilteredCount int     `json:"filtered_count"`
	RemovedCount  int     `json:"removed_count"`
	RetentionRate float64 `json:"retention_rate"`
}

// Compute derives retention statistics from an (original, filtered) pair.
// Only the lengths matter; record contents are never inspected. The rate is
// a percentage, 0 when the original set is empty, and deliberately not
// clamped: a rate above 100 surfaces caller misuse instead of masking it.
func Compute(original, filtered []record.Record) Summary {
	originalCount := len(original)
	filteredCount := len(filtered)

	var rate float64
	if originalCount > 0 {
		rate = float64(filteredCount) / float64(originalCount) * 100
	}

	return Summary{
		OriginalCount: originalCount,
		FilteredCount: filteredCount,
		RemovedCount:  originalCount - filteredCount,
		RetentionRate: rate,
	}
}
