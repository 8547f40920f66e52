package export

import (
	"regexp"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
)

// unfilledPlaceholders matches {field} markers left over after substitution.
var unfilledPlaceholders = regexp.MustCompile(`\{[a-z_]+\}`)

// countFields are rendered with digit grouping in templates.
var countFields = map[string]bool{
	"view_count":       true,
	"like_count":       true,
	"subscriber_count": true,
}

// markdownTemplates are the stock per-item markdown bodies.
var markdownTemplates = map[content.Type]string{
	content.Video: `**Channel:** {channel_title}
**Duration:** {duration}
**Views:** {view_count}
**Likes:** {like_count}
**Published:** {published_at}
**URL:** https://youtube.com/watch?v={video_id}

**Description:**
{description}`,

	content.Channel: `**Channel ID:** {channel_id}
**Subscribers:** {subscriber_count}
**Videos:** {video_count}
**Total views:** {view_count}
**Country:** {country}
**Created:** {published_at}
**URL:** https://youtube.com/channel/{channel_id}

**Description:**
{description}`,

	content.Playlist: `**Channel:** {channel_title}
**Items:** {item_count}
**Created:** {published_at}
**URL:** https://youtube.com/playlist?list={playlist_id}

**Description:**
{description}`,
}

// csvFieldnames are the CSV columns per content type.
var csvFieldnames = map[content.Type][]string{
	content.Video: {
		"video_id", "title", "channel_title", "duration",
		"view_count", "like_count", "comment_count",
		"published_at", "language",
	},
	content.Channel: {
		"channel_id", "title", "subscriber_count",
		"video_count", "view_count", "published_at", "country",
	},
	content.Playlist: {
		"playlist_id", "title", "channel_title",
		"item_count", "published_at",
	},
}
