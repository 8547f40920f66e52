package preset

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

// seedPresets are the stock presets installed into an empty registry.
func seedPresets() []dompreset.Attributes {
	return []dompreset.Attributes{
		{
			Name:        "Basic information",
			Description: "Title, channel, description and thumbnail. Fast, lightweight extraction for a quick overview.",
			ContentType: content.Video,
			Fields: []string{
				"title", "channel_title", "description", "thumbnail_url",
				"published_at", "duration",
			},
			TextModel:  "gpt-3.5-turbo",
			ImageModel: "stable-diffusion",
			Format:     domain.FormatJSON,
			UITemplate: "basic",
			IsDefault:  true,
		},
		{
			Name:        "Full statistics",
			Description: "Basic information plus performance statistics: views, likes, comments, tags and key metadata.",
			ContentType: content.Video,
			Fields: []string{
				"title", "channel_title", "description", "thumbnail_url",
				"published_at", "duration", "view_count", "like_count",
				"comment_count", "tags", "category_id", "language",
				"definition", "caption", "privacy_status",
			},
			TextModel:  "gpt-4",
			ImageModel: "stable-diffusion",
			Format:     domain.FormatCSV,
			UITemplate: "detailed",
		},
		{
			Name:        "Channel overview",
			Description: "Channel identity and audience figures: subscribers, video count, country and creation date.",
			ContentType: content.Channel,
			Fields: []string{
				"title", "description", "subscriber_count", "video_count",
				"view_count", "country", "published_at", "thumbnail_url",
			},
			TextModel:  "gpt-3.5-turbo",
			ImageModel: "stable-diffusion",
			Format:     domain.FormatMarkdown,
			UITemplate: "basic",
			IsDefault:  true,
		},
		{
			Name:        "Playlist summary",
			Description: "Playlist title, owner and item count for catalogue listings.",
			ContentType: content.Playlist,
			Fields: []string{
				"title", "description", "channel_title", "item_count",
				"published_at", "thumbnail_url",
			},
			TextModel:  "gpt-3.5-turbo",
			ImageModel: "stable-diffusion",
			Format:     domain.FormatMarkdown,
			UITemplate: "basic",
			IsDefault:  true,
		},
	}
}

// EnsureSeeds installs the stock presets when the registry is empty.
// A registry that already holds presets is left untouched.
func (s *Service) EnsureSeeds(ctx context.Context) error {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	if len(all) > 0 {
		return nil
	}

	// Seeds carry at most one default per content type, so the registry
	// invariant holds without any demotion bookkeeping and the whole batch
	// goes down in one pipelined write.
	seeds := seedPresets()
	presets := make([]dompreset.Preset, 0, len(seeds))
	for _, at := range seeds {
		p, err := dompreset.New(uuid.NewString(), at, s.now())
		if err != nil {
			return fmt.Errorf("seed preset %q: %w", at.Name, err)
		}
		presets = append(presets, p)
	}
	if err := s.repo.InsertMany(ctx, presets); err != nil {
		return fmt.Errorf("install stock presets: %w", err)
	}

	s.logger.Info("stock presets installed", zap.Int("count", len(presets)))
	return nil
}
