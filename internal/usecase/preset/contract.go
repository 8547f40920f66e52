package preset

import (
	"context"

	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

// Repository defines the storage contract for presets.
type Repository interface {
	GetAll(ctx context.Context) ([]dompreset.Preset, error)
	GetByID(ctx context.Context, id string) (dompreset.Preset, error)
	Insert(ctx context.Context, p dompreset.Preset) error
	InsertMany(ctx context.Context, presets []dompreset.Preset) error
	Update(ctx context.Context, p dompreset.Preset) error
	Delete(ctx context.Context, id string) error
}
