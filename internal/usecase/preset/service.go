package preset

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset/patch"
)

// Service handles preset CRUD and guards the per-content-type default
// invariant: at most one preset per content type carries the default flag.
type Service struct {
	repo   Repository
	logger *zap.Logger

	// mu serializes default-flag bookkeeping across Create/Update.
	mu sync.Mutex

	now func() int64
}

// New creates a preset service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// Create validates and stores a new preset. When the new preset claims the
// default flag, any previous default for the same content type is demoted.
func (s *Service) Create(ctx context.Context, at dompreset.Attributes) (dompreset.Preset, error) {
	p, err := dompreset.New(uuid.NewString(), at, s.now())
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("validate preset: %w: %w", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsDefault() {
		if err := s.clearDefault(ctx, p.ContentType(), p.ID()); err != nil {
			return dompreset.Preset{}, err
		}
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return dompreset.Preset{}, fmt.Errorf("create preset: %w", err)
	}

	s.logger.Info("preset created",
		zap.String("preset_id", p.ID()),
		zap.String("content_type", string(p.ContentType())),
		zap.Bool("is_default", p.IsDefault()),
	)
	return p, nil
}

// Update applies a partial update to a preset. Promoting a preset to default
// demotes any other default for the content type the preset held before the
// patch, even when the patch changes the content type.
func (s *Service) Update(ctx context.Context, id string, pt patch.Patch) (dompreset.Preset, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset: %w", err)
	}
	existingType := existing.ContentType()

	updated, err := existing.Apply(pt, s.now())
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("validate preset update: %w: %w", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if updated.IsDefault() {
		if err := s.clearDefault(ctx, existingType, updated.ID()); err != nil {
			return dompreset.Preset{}, err
		}
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return dompreset.Preset{}, fmt.Errorf("update preset: %w", err)
	}
	return updated, nil
}

// Delete removes a preset. The default preset of a content type cannot be
// deleted; demote it first.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get preset: %w", err)
	}
	if p.IsDefault() {
		return fmt.Errorf(
			"preset %q is the default for %s: %w",
			p.Name(), p.ContentType(), domain.ErrDefaultPreset,
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}

	s.logger.Info("preset deleted", zap.String("preset_id", id))
	return nil
}

// Get retrieves a preset by ID.
func (s *Service) Get(ctx context.Context, id string) (dompreset.Preset, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("get preset: %w", err)
	}
	return p, nil
}

// List returns presets, optionally narrowed to one content type, ordered
// default-first then by name.
func (s *Service) List(ctx context.Context, ct content.Type) ([]dompreset.Preset, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	out := make([]dompreset.Preset, 0, len(all))
	for _, p := range all {
		if ct != "" && p.ContentType() != ct {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault() != out[j].IsDefault() {
			return out[i].IsDefault()
		}
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}

// GetDefault returns the default preset for a content type. The found flag
// is false when the content type has no default.
func (s *Service) GetDefault(ctx context.Context, ct content.Type) (dompreset.Preset, bool, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return dompreset.Preset{}, false, fmt.Errorf("list presets: %w", err)
	}
	for _, p := range all {
		if p.ContentType() == ct && p.IsDefault() {
			return p, true, nil
		}
	}
	return dompreset.Preset{}, false, nil
}

// clearDefault demotes every default preset of the content type except the
// one being promoted. Callers hold s.mu.
func (s *Service) clearDefault(ctx context.Context, ct content.Type, exceptID string) error {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list presets: %w", err)
	}
	for _, p := range all {
		if p.ContentType() != ct || !p.IsDefault() || p.ID() == exceptID {
			continue
		}
		if err := s.repo.Update(ctx, p.WithDefault(false, s.now())); err != nil {
			return fmt.Errorf("demote previous default: %w", err)
		}
		s.logger.Info("previous default demoted",
			zap.String("preset_id", p.ID()),
			zap.String("content_type", string(ct)),
		)
	}
	return nil
}
