package fetch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// Service retrieves metadata records, serving repeats from the cache and
// charging quota for source hits. The cache is optional; a nil Cache means
// every call goes to the source.
type Service struct {
	source Source
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// New creates a fetch service.
func New(source Source, cache Cache, logger *zap.Logger) *Service {
	return &Service{source: source, cache: cache, logger: logger, now: time.Now}
}

// ByIDs fetches records of one content type by their IDs.
func (s *Service) ByIDs(ctx context.Context, ct content.Type, ids []string) ([]record.Record, error) {
	if !ct.IsValid() {
		return nil, fmt.Errorf("unknown content type %q: %w", ct, domain.ErrValidation)
	}
	if len(ids) == 0 {
		return []record.Record{}, nil
	}

	key := idsKey(ct, ids)
	if records, ok := s.fromCache(ctx, key); ok {
		return records, nil
	}

	var records []record.Record
	var units int64
	var err error
	switch ct {
	case content.Video:
		records, units, err = s.source.Videos(ctx, ids)
	case content.Channel:
		records, units, err = s.source.Channels(ctx, ids)
	case content.Playlist:
		records, units, err = s.source.Playlists(ctx, ids)
	}
	s.chargeQuota(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ct, err)
	}

	s.toCache(ctx, key, records)
	s.logger.Info("metadata fetched",
		zap.String("content_type", string(ct)),
		zap.Int("requested", len(ids)),
		zap.Int("returned", len(records)),
	)
	return records, nil
}

// Search fetches video records matching a free-text query.
func (s *Service) Search(ctx context.Context, query string, limit int64) ([]record.Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required: %w", domain.ErrValidation)
	}

	key := fmt.Sprintf("search:%d:%s", limit, strings.ToLower(query))
	if records, ok := s.fromCache(ctx, key); ok {
		return records, nil
	}

	records, units, err := s.source.SearchVideos(ctx, query, limit)
	s.chargeQuota(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	s.toCache(ctx, key, records)
	s.logger.Info("search fetched",
		zap.String("query", query),
		zap.Int("returned", len(records)),
	)
	return records, nil
}

// Cache and quota failures degrade to source fetches; they never fail the
// request.

func (s *Service) fromCache(ctx context.Context, key string) ([]record.Record, bool) {
	if s.cache == nil {
		return nil, false
	}
	records, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("fetch cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, found
}

func (s *Service) toCache(ctx context.Context, key string, records []record.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, records); err != nil {
		s.logger.Warn("fetch cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) chargeQuota(ctx context.Context, units int64) {
	if s.cache == nil || units == 0 {
		return
	}
	day := s.now().UTC().Format("2006-01-02")
	if err := s.cache.AddQuota(ctx, day, units); err != nil {
		s.logger.Warn("quota accounting failed", zap.Error(err))
	}
}

// idsKey builds a deterministic cache key regardless of ID order.
func idsKey(ct content.Type, ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return fmt.Sprintf("%s:ids:%s", ct, strings.Join(sorted, ","))
}
