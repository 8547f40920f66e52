package filter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/codec"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// matchFunc evaluates one record against a criteria set.
type matchFunc func(rec record.Record, cs criteria.Set) bool

// Service evaluates criteria sets against fetched record collections.
// Every predicate is pure; concurrent callers need no coordination.
type Service struct {
	logger   *zap.Logger
	matchers map[content.Type]matchFunc
}

// New creates a filter service.
func New(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		matchers: map[content.Type]matchFunc{
			content.Video:    matchVideo,
			content.Channel:  matchChannel,
			content.Playlist: matchPlaylist,
		},
	}
}

// Apply returns the records satisfying every criterion that applies to the
// content type, preserving input order. The input slice is never mutated.
// Unsupported content types pass through unfiltered with a warning.
func (s *Service) Apply(
	records []record.Record, ct content.Type, cs criteria.Set,
) []record.Record {
	if len(records) == 0 {
		return []record.Record{}
	}

	match, ok := s.matchers[ct]
	if !ok {
		s.logger.Warn("unsupported content type, records pass through unfiltered",
			zap.String("content_type", string(ct)))
		out := make([]record.Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if match(rec, cs) {
			out = append(out, rec)
		}
	}

	s.logger.Info("filter applied",
		zap.String("content_type", string(ct)),
		zap.Int("kept", len(out)),
		zap.Int("total", len(records)),
	)
	return out
}

// Matches evaluates one record against the criteria set for a content type.
// Unsupported content types match vacuously.
func (s *Service) Matches(rec record.Record, ct content.Type, cs criteria.Set) bool {
	match, ok := s.matchers[ct]
	if !ok {
		return true
	}
	return match(rec, cs)
}

func matchVideo(rec record.Record, cs criteria.Set) bool {
	if cs.MinDuration() != nil || cs.MaxDuration() != nil {
		d := codec.ParseDuration(rec.String("duration"))
		if !withinBounds(d, cs.MinDuration(), cs.MaxDuration()) {
			return false
		}
	}
	if !withinBounds(rec.Int("view_count"), cs.MinViews(), cs.MaxViews()) {
		return false
	}
	if !withinBounds(rec.Int("like_count"), cs.MinLikes(), cs.MaxLikes()) {
		return false
	}
	if !withinDates(rec.String("published_at"), cs) {
		return false
	}
	if !keywordsAdmit(rec, cs) {
		return false
	}
	if langs := cs.Languages(); len(langs) > 0 {
		if !equalsAnyFold(rec.String("language"), langs) {
			return false
		}
	}
	return ownerAdmitted(rec.String("channel_id"), cs)
}

func matchChannel(rec record.Record, cs criteria.Set) bool {
	if !withinBounds(rec.Int("subscriber_count"), cs.MinSubscribers(), cs.MaxSubscribers()) {
		return false
	}
	if !withinBounds(rec.Int("video_count"), cs.MinVideos(), cs.MaxVideos()) {
		return false
	}
	if !withinDates(rec.String("published_at"), cs) {
		return false
	}
	if !keywordsAdmit(rec, cs) {
		return false
	}
	if countries := cs.Countries(); len(countries) > 0 {
		if !equalsAnyFold(rec.String("country"), countries) {
			return false
		}
	}
	return true
}

func matchPlaylist(rec record.Record, cs criteria.Set) bool {
	if !withinBounds(rec.Int("item_count"), cs.MinItems(), cs.MaxItems()) {
		return false
	}
	if !withinDates(rec.String("published_at"), cs) {
		return false
	}
	if !keywordsAdmit(rec, cs) {
		return false
	}
	return ownerAdmitted(rec.String("channel_id"), cs)
}

// withinBounds checks an inclusive numeric range; nil bounds are vacuous.
func withinBounds(v int64, min, max *int64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// withinDates decodes the record timestamp and checks inclusive date bounds.
// An unparseable record date decodes to the minimum instant: it fails any
// start-date bound but passes any end-date bound.
func withinDates(published string, cs criteria.Set) bool {
	if cs.StartDate() == nil && cs.EndDate() == nil {
		return true
	}
	t := codec.ParseTimestamp(published)
	if start := cs.StartDate(); start != nil && t.Before(*start) {
		return false
	}
	if end := cs.EndDate(); end != nil && t.After(*end) {
		return false
	}
	return true
}

// keywordsAdmit applies the include list (at least one must appear) and the
// exclude list (none may appear) against the record's search text.
func keywordsAdmit(rec record.Record, cs criteria.Set) bool {
	include := cs.IncludeKeywords()
	exclude := cs.ExcludeKeywords()
	if len(include) == 0 && len(exclude) == 0 {
		return true
	}

	text := searchText(rec)
	if len(include) > 0 && !containsAny(text, include) {
		return false
	}
	if len(exclude) > 0 && containsAny(text, exclude) {
		return false
	}
	return true
}

// searchText concatenates title, description, and tags in lowercase.
func searchText(rec record.Record) string {
	var b strings.Builder
	b.WriteString(rec.String("title"))
	b.WriteByte(' ')
	b.WriteString(rec.String("description"))
	for _, tag := range rec.Strings("tags") {
		b.WriteByte(' ')
		b.WriteString(tag)
	}
	return strings.ToLower(b.String())
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func equalsAnyFold(v string, accepted []string) bool {
	for _, a := range accepted {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// ownerAdmitted checks exact-match owner include/exclude lists.
func ownerAdmitted(channelID string, cs criteria.Set) bool {
	if ids := cs.ChannelIDs(); len(ids) > 0 && !containsExact(ids, channelID) {
		return false
	}
	if ids := cs.ExcludeChannelIDs(); len(ids) > 0 && containsExact(ids, channelID) {
		return false
	}
	return true
}

func containsExact(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
