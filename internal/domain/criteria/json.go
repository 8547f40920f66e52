package criteria

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/codec"
)

// jsonSet is the wire and storage shape of a Set. Keys mirror the criteria
// dimensions; unknown keys are ignored so the blob can evolve.
type jsonSet struct {
	MinDuration string `json:"min_duration,omitempty"`
	MaxDuration string `json:"max_duration,omitempty"`

	MinViews *int64 `json:"min_views,omitempty"`
	MaxViews *int64 `json:"max_views,omitempty"`
	MinLikes *int64 `json:"min_likes,omitempty"`
	MaxLikes *int64 `json:"max_likes,omitempty"`

	MinSubscribers *int64 `json:"min_subscribers,omitempty"`
	MaxSubscribers *int64 `json:"max_subscribers,omitempty"`
	MinVideos      *int64 `json:"min_videos,omitempty"`
	MaxVideos      *int64 `json:"max_videos,omitempty"`

	MinItems *int64 `json:"min_items,omitempty"`
	MaxItems *int64 `json:"max_items,omitempty"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	IncludeKeywords []string `json:"include_keywords,omitempty"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	Languages []string `json:"languages,omitempty"`
	Countries []string `json:"countries,omitempty"`

	ChannelIDs        []string `json:"channel_ids,omitempty"`
	ExcludeChannelIDs []string `json:"exclude_channel_ids,omitempty"`
}

// FromJSON decodes a Set from its JSON form. Ill-typed values (a string
// where a number is required, and the like) fail with domain.ErrValidation
// here, at assembly time, so filtering itself never raises.
func FromJSON(data []byte) (Set, error) {
	if len(data) == 0 {
		return Set{}, nil
	}

	var js jsonSet
	if err := json.Unmarshal(data, &js); err != nil {
		return Set{}, fmt.Errorf("%w: criteria: %v", domain.ErrValidation, err)
	}

	return New(Params{
		MinDuration:       js.MinDuration,
		MaxDuration:       js.MaxDuration,
		MinViews:          js.MinViews,
		MaxViews:          js.MaxViews,
		MinLikes:          js.MinLikes,
		MaxLikes:          js.MaxLikes,
		MinSubscribers:    js.MinSubscribers,
		MaxSubscribers:    js.MaxSubscribers,
		MinVideos:         js.MinVideos,
		MaxVideos:         js.MaxVideos,
		MinItems:          js.MinItems,
		MaxItems:          js.MaxItems,
		StartDate:         js.StartDate,
		EndDate:           js.EndDate,
		IncludeKeywords:   js.IncludeKeywords,
		ExcludeKeywords:   js.ExcludeKeywords,
		Languages:         js.Languages,
		Countries:         js.Countries,
		ChannelIDs:        js.ChannelIDs,
		ExcludeChannelIDs: js.ExcludeChannelIDs,
	})
}

// MarshalJSON encodes the Set into its storage form. Durations serialize
// canonically, dates as RFC 3339.
func (s Set) MarshalJSON() ([]byte, error) {
	js := jsonSet{
		MinViews:          s.minViews,
		MaxViews:          s.maxViews,
		MinLikes:          s.minLikes,
		MaxLikes:          s.maxLikes,
		MinSubscribers:    s.minSubscribers,
		MaxSubscribers:    s.maxSubscribers,
		MinVideos:         s.minVideos,
		MaxVideos:         s.maxVideos,
		MinItems:          s.minItems,
		MaxItems:          s.maxItems,
		IncludeKeywords:   s.includeKeywords,
		ExcludeKeywords:   s.excludeKeywords,
		Languages:         s.languages,
		Countries:         s.countries,
		ChannelIDs:        s.channelIDs,
		ExcludeChannelIDs: s.excludeChannelIDs,
	}
	if s.minDuration != nil {
		js.MinDuration = codec.FormatDuration(*s.minDuration)
	}
	if s.maxDuration != nil {
		js.MaxDuration = codec.FormatDuration(*s.maxDuration)
	}
	if s.startDate != nil {
		js.StartDate = s.startDate.Format(time.RFC3339)
	}
	if s.endDate != nil {
		js.EndDate = s.endDate.Format(time.RFC3339)
	}
	return json.Marshal(js)
}

// UnmarshalJSON decodes the Set from its storage form.
func (s *Set) UnmarshalJSON(data []byte) error {
	decoded, err := FromJSON(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
