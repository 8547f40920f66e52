package criteria

import (
	"fmt"
	"time"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/codec"
)

// Params is the sparse caller input for a criteria Set. Every field is
// optional; a zero value means no constraint on that dimension. Duration
// bounds are ISO 8601 duration strings, date bounds ISO 8601 timestamps.
type Params struct {
	MinDuration string
	MaxDuration string

	MinViews *int64
	MaxViews *int64
	MinLikes *int64
	MaxLikes *int64

	MinSubscribers *int64
	MaxSubscribers *int64
	MinVideos      *int64
	MaxVideos      *int64

	MinItems *int64
	MaxItems *int64

	StartDate string
	EndDate   string

	IncludeKeywords []string
	ExcludeKeywords []string

	Languages []string
	Countries []string

	ChannelIDs        []string
	ExcludeChannelIDs []string
}

// Set is an immutable description of filter conditions across dimensions.
// Contradictory bounds (min above max) are not reconciled: the filter then
// yields an empty result for that dimension, which is accepted behavior.
type Set struct {
	minDuration *int64 // seconds
	maxDuration *int64

	minViews *int64
	maxViews *int64
	minLikes *int64
	maxLikes *int64

	minSubscribers *int64
	maxSubscribers *int64
	minVideos      *int64
	maxVideos      *int64

	minItems *int64
	maxItems *int64

	startDate *time.Time
	endDate   *time.Time

	includeKeywords []string
	excludeKeywords []string

	languages []string
	countries []string

	channelIDs        []string
	excludeChannelIDs []string
}

// New validates and creates a Set. Duration bounds are decoded leniently
// (malformed durations mean "no constraint", matching record-side decoding);
// date bounds are a caller responsibility and fail fast with
// domain.ErrValidation when unparseable.
func New(p Params) (Set, error) {
	s := Set{
		minViews:          p.MinViews,
		maxViews:          p.MaxViews,
		minLikes:          p.MinLikes,
		maxLikes:          p.MaxLikes,
		minSubscribers:    p.MinSubscribers,
		maxSubscribers:    p.MaxSubscribers,
		minVideos:         p.MinVideos,
		maxVideos:         p.MaxVideos,
		minItems:          p.MinItems,
		maxItems:          p.MaxItems,
		includeKeywords:   p.IncludeKeywords,
		excludeKeywords:   p.ExcludeKeywords,
		languages:         p.Languages,
		countries:         p.Countries,
		channelIDs:        p.ChannelIDs,
		excludeChannelIDs: p.ExcludeChannelIDs,
	}

	if p.MinDuration != "" {
		d := codec.ParseDuration(p.MinDuration)
		s.minDuration = &d
	}
	if p.MaxDuration != "" {
		d := codec.ParseDuration(p.MaxDuration)
		s.maxDuration = &d
	}

	start, err := parseBound(p.StartDate)
	if err != nil {
		return Set{}, fmt.Errorf("%w: start_date: %v", domain.ErrValidation, err)
	}
	s.startDate = start

	end, err := parseBound(p.EndDate)
	if err != nil {
		return Set{}, fmt.Errorf("%w: end_date: %v", domain.ErrValidation, err)
	}
	s.endDate = end

	return s, nil
}

// parseBound parses a criteria-side date bound strictly: unlike record
// timestamps, a malformed bound is a caller programming error.
func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t := codec.ParseTimestamp(s)
	if t.IsZero() {
		return nil, fmt.Errorf("unparseable date %q", s)
	}
	return &t, nil
}

// IsEmpty reports whether the set holds no conditions at all.
func (s Set) IsEmpty() bool {
	return s.minDuration == nil && s.maxDuration == nil &&
		s.minViews == nil && s.maxViews == nil &&
		s.minLikes == nil && s.maxLikes == nil &&
		s.minSubscribers == nil && s.maxSubscribers == nil &&
		s.minVideos == nil && s.maxVideos == nil &&
		s.minItems == nil && s.maxItems == nil &&
		s.startDate == nil && s.endDate == nil &&
		len(s.includeKeywords) == 0 && len(s.excludeKeywords) == 0 &&
		len(s.languages) == 0 && len(s.countries) == 0 &&
		len(s.channelIDs) == 0 && len(s.excludeChannelIDs) == 0
}

// MinDuration returns the inclusive lower duration bound in seconds.
func (s Set) MinDuration() *int64 { return s.minDuration }

// MaxDuration returns the inclusive upper duration bound in seconds.
func (s Set) MaxDuration() *int64 { return s.maxDuration }

// MinViews returns the inclusive lower view count bound.
func (s Set) MinViews() *int64 { return s.minViews }

// MaxViews returns the inclusive upper view count bound.
func (s Set) MaxViews() *int64 { return s.maxViews }

// MinLikes returns the inclusive lower like count bound.
func (s Set) MinLikes() *int64 { return s.minLikes }

// MaxLikes returns the inclusive upper like count bound.
func (s Set) MaxLikes() *int64 { return s.maxLikes }

// MinSubscribers returns the inclusive lower subscriber count bound.
func (s Set) MinSubscribers() *int64 { return s.minSubscribers }

// MaxSubscribers returns the inclusive upper subscriber count bound.
func (s Set) MaxSubscribers() *int64 { return s.maxSubscribers }

// MinVideos returns the inclusive lower channel video count bound.
func (s Set) MinVideos() *int64 { return s.minVideos }

// MaxVideos returns the inclusive upper channel video count bound.
func (s Set) MaxVideos() *int64 { return s.maxVideos }

// MinItems returns the inclusive lower playlist item count bound.
func (s Set) MinItems() *int64 { return s.minItems }

// MaxItems returns the inclusive upper playlist item count bound.
func (s Set) MaxItems() *int64 { return s.maxItems }

// StartDate returns the inclusive lower publish date bound.
func (s Set) StartDate() *time.Time { return s.startDate }

// EndDate returns the inclusive upper publish date bound.
func (s Set) EndDate() *time.Time { return s.endDate }

// IncludeKeywords returns keywords of which at least one must appear.
func (s Set) IncludeKeywords() []string { return s.includeKeywords }

// ExcludeKeywords returns keywords of which none may appear.
func (s Set) ExcludeKeywords() []string { return s.excludeKeywords }

// Languages returns accepted language codes (case-insensitive exact match).
func (s Set) Languages() []string { return s.languages }

// Countries returns accepted channel countries (case-insensitive exact match).
func (s Set) Countries() []string { return s.countries }

// ChannelIDs returns accepted owner channel ids (exact match).
func (s Set) ChannelIDs() []string { return s.channelIDs }

// ExcludeChannelIDs returns rejected owner channel ids (exact match).
func (s Set) ExcludeChannelIDs() []string { return s.excludeChannelIDs }
