package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// Quota unit costs per YouTube Data API v3 call.
const (
	listCost   = 1
	searchCost = 100
)

// maxSearchResults caps one search page.
const maxSearchResults = 50

// Source fetches video, channel, and playlist metadata from the YouTube
// Data API v3 and maps it into the record field names the filter engine
// reads.
type Source struct {
	service *youtube.Service
}

// New creates a YouTube metadata source.
func New(ctx context.Context, apiKey string) (*Source, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Source{service: service}, nil
}

// Videos fetches video metadata by ID. Returns the records and the quota
// units consumed.
func (s *Source) Videos(ctx context.Context, ids []string) ([]record.Record, int64, error) {
	if len(ids) == 0 {
		return []record.Record{}, 0, nil
	}

	resp, err := s.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, listCost, fmt.Errorf("videos.list: %w: %w", domain.ErrMetadataSource, err)
	}

	records := make([]record.Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, videoRecord(item))
	}
	return records, listCost, nil
}

// Channels fetches channel metadata by ID.
func (s *Source) Channels(ctx context.Context, ids []string) ([]record.Record, int64, error) {
	if len(ids) == 0 {
		return []record.Record{}, 0, nil
	}

	resp, err := s.service.Channels.
		List([]string{"snippet", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, listCost, fmt.Errorf("channels.list: %w: %w", domain.ErrMetadataSource, err)
	}

	records := make([]record.Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, channelRecord(item))
	}
	return records, listCost, nil
}

// Playlists fetches playlist metadata by ID.
func (s *Source) Playlists(ctx context.Context, ids []string) ([]record.Record, int64, error) {
	if len(ids) == 0 {
		return []record.Record{}, 0, nil
	}

	resp, err := s.service.Playlists.
		List([]string{"snippet", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, listCost, fmt.Errorf("playlists.list: %w: %w", domain.ErrMetadataSource, err)
	}

	records := make([]record.Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, playlistRecord(item))
	}
	return records, listCost, nil
}

// SearchVideos searches for videos and hydrates the hits via Videos. A
// search page costs 100 quota units, the hydration list call one more.
func (s *Source) SearchVideos(ctx context.Context, query string, limit int64) ([]record.Record, int64, error) {
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	resp, err := s.service.Search.
		List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, searchCost, fmt.Errorf("search.list: %w: %w", domain.ErrMetadataSource, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []record.Record{}, searchCost, nil
	}

	records, listUnits, err := s.Videos(ctx, ids)
	return records, searchCost + listUnits, err
}

func videoRecord(v *youtube.Video) record.Record {
	rec := record.Record{"video_id": v.Id}
	if v.Snippet != nil {
		rec["title"] = v.Snippet.Title
		rec["description"] = v.Snippet.Description
		rec["channel_id"] = v.Snippet.ChannelId
		rec["channel_title"] = v.Snippet.ChannelTitle
		rec["published_at"] = v.Snippet.PublishedAt
		rec["category_id"] = v.Snippet.CategoryId
		if len(v.Snippet.Tags) > 0 {
			rec["tags"] = v.Snippet.Tags
		}
		if lang := snippetLanguage(v.Snippet); lang != "" {
			rec["language"] = lang
		}
		if url := thumbnailURL(v.Snippet.Thumbnails); url != "" {
			rec["thumbnail_url"] = url
		}
	}
	if v.ContentDetails != nil {
		rec["duration"] = v.ContentDetails.Duration
		rec["definition"] = v.ContentDetails.Definition
		rec["caption"] = v.ContentDetails.Caption
	}
	if v.Statistics != nil {
		rec["view_count"] = int64(v.Statistics.ViewCount)
		rec["like_count"] = int64(v.Statistics.LikeCount)
		rec["comment_count"] = int64(v.Statistics.CommentCount)
	}
	return rec
}

func channelRecord(c *youtube.Channel) record.Record {
	rec := record.Record{"channel_id": c.Id}
	if c.Snippet != nil {
		rec["title"] = c.Snippet.Title
		rec["description"] = c.Snippet.Description
		rec["published_at"] = c.Snippet.PublishedAt
		rec["country"] = c.Snippet.Country
		if url := thumbnailURL(c.Snippet.Thumbnails); url != "" {
			rec["thumbnail_url"] = url
		}
	}
	if c.Statistics != nil {
		rec["subscriber_count"] = int64(c.Statistics.SubscriberCount)
		rec["video_count"] = int64(c.Statistics.VideoCount)
		rec["view_count"] = int64(c.Statistics.ViewCount)
	}
	return rec
}

func playlistRecord(p *youtube.Playlist) record.Record {
	rec := record.Record{"playlist_id": p.Id}
	if p.Snippet != nil {
		rec["title"] = p.Snippet.Title
		rec["description"] = p.Snippet.Description
		rec["channel_id"] = p.Snippet.ChannelId
		rec["channel_title"] = p.Snippet.ChannelTitle
		rec["published_at"] = p.Snippet.PublishedAt
		if url := thumbnailURL(p.Snippet.Thumbnails); url != "" {
			rec["thumbnail_url"] = url
		}
	}
	if p.ContentDetails != nil {
		rec["item_count"] = p.ContentDetails.ItemCount
	}
	return rec
}

func snippetLanguage(s *youtube.VideoSnippet) string {
	if s.DefaultAudioLanguage != "" {
		return s.DefaultAudioLanguage
	}
	return s.DefaultLanguage
}

// thumbnailURL prefers the highest resolution available.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
