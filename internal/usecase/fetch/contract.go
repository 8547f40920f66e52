package fetch

import (
	"context"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// Source defines the metadata source contract. Each call reports the quota
// units it consumed alongside the records.
type Source interface {
	Videos(ctx context.Context, ids []string) ([]record.Record, int64, error)
	Channels(ctx context.Context, ids []string) ([]record.Record, int64, error)
	Playlists(ctx context.Context, ids []string) ([]record.Record, int64, error)
	SearchVideos(ctx context.Context, query string, limit int64) ([]record.Record, int64, error)
}

// Cache defines the fetch cache and quota accounting contract.
type Cache interface {
	Get(ctx context.Context, key string) ([]record.Record, bool, error)
	Put(ctx context.Context, key string, records []record.Record) error
	AddQuota(ctx context.Context, day string, units int64) error
}
