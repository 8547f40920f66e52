package preset

import (
	"fmt"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset/patch"
)

// MaxNameLength is the maximum preset name length in characters.
const MaxNameLength = 128

// DefaultUITemplate is used when a preset does not name one.
const DefaultUITemplate = "standard"

// Preset is a named, persisted bundle of a field allow-list, filter
// criteria, and generation/export defaults for one content type
// (immutable value object).
type Preset struct {
	id          string
	name        string
	description string
	contentType content.Type
	fields      []string
	criteria    criteria.Set
	textModel   string
	imageModel  string
	format      domain.ExportFormat
	uiTemplate  string
	isDefault   bool
	createdAt   int64
	updatedAt   int64
}

// Attributes holds the caller-supplied parts of a preset.
type Attributes struct {
	Name        string
	Description string
	ContentType content.Type
	Fields      []string
	Criteria    criteria.Set
	TextModel   string
	ImageModel  string
	Format      domain.ExportFormat
	UITemplate  string
	IsDefault   bool
}

// New validates and creates a Preset. Name and a valid content type are
// required; format defaults to markdown, the UI template to "standard".
func New(id string, at Attributes, now int64) (Preset, error) {
	if id == "" {
		return Preset{}, fmt.Errorf("preset ID is required")
	}
	if at.Name == "" {
		return Preset{}, fmt.Errorf("preset name is required")
	}
	if len(at.Name) > MaxNameLength {
		return Preset{}, fmt.Errorf("preset name too long (max %d)", MaxNameLength)
	}
	if !at.ContentType.IsValid() {
		return Preset{}, fmt.Errorf("unknown content type %q", at.ContentType)
	}

	format := at.Format
	if format == "" {
		format = domain.FormatMarkdown
	}
	if !format.IsValid() {
		return Preset{}, fmt.Errorf("unknown export format %q", at.Format)
	}

	uiTemplate := at.UITemplate
	if uiTemplate == "" {
		uiTemplate = DefaultUITemplate
	}

	return Preset{
		id:          id,
		name:        at.Name,
		description: at.Description,
		contentType: at.ContentType,
		fields:      cloneStrings(at.Fields),
		criteria:    at.Criteria,
		textModel:   at.TextModel,
		imageModel:  at.ImageModel,
		format:      format,
		uiTemplate:  uiTemplate,
		isDefault:   at.IsDefault,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Preset without validation (storage hydration).
func Reconstruct(
	id string, at Attributes, createdAt, updatedAt int64,
) Preset {
	return Preset{
		id:          id,
		name:        at.Name,
		description: at.Description,
		contentType: at.ContentType,
		fields:      at.Fields,
		criteria:    at.Criteria,
		textModel:   at.TextModel,
		imageModel:  at.ImageModel,
		format:      at.Format,
		uiTemplate:  at.UITemplate,
		isDefault:   at.IsDefault,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the preset identifier.
func (p Preset) ID() string { return p.id }

// Name returns the preset name.
func (p Preset) Name() string { return p.name }

// Description returns the preset description.
func (p Preset) Description() string { return p.description }

// ContentType returns the content type the preset applies to.
func (p Preset) ContentType() content.Type { return p.contentType }

// Fields returns the ordered field allow-list for projection.
func (p Preset) Fields() []string { return p.fields }

// Criteria returns the filter criteria bundled with the preset.
func (p Preset) Criteria() criteria.Set { return p.criteria }

// TextModel returns the text generation model id.
func (p Preset) TextModel() string { return p.textModel }

// ImageModel returns the image generation model id.
func (p Preset) ImageModel() string { return p.imageModel }

// Format returns the export format.
func (p Preset) Format() domain.ExportFormat { return p.format }

// UITemplate returns the UI template name.
func (p Preset) UITemplate() string { return p.uiTemplate }

// IsDefault reports whether this preset is the default for its content type.
func (p Preset) IsDefault() bool { return p.isDefault }

// CreatedAt returns the creation time as a Unix timestamp.
func (p Preset) CreatedAt() int64 { return p.createdAt }

// UpdatedAt returns the last update time as a Unix timestamp.
func (p Preset) UpdatedAt() int64 { return p.updatedAt }

// WithDefault returns a copy with the default flag set accordingly.
func (p Preset) WithDefault(isDefault bool, now int64) Preset {
	c := p
	c.isDefault = isDefault
	c.updatedAt = now
	return c
}

// Apply returns a copy with the patch applied. The content type of the
// existing preset stays authoritative for default-flag bookkeeping even if
// the patch changes it; callers read it before applying.
func (p Preset) Apply(pt patch.Patch, now int64) (Preset, error) {
	at := Attributes{
		Name:        p.name,
		Description: p.description,
		ContentType: p.contentType,
		Fields:      p.fields,
		Criteria:    p.criteria,
		TextModel:   p.textModel,
		ImageModel:  p.imageModel,
		Format:      p.format,
		UITemplate:  p.uiTemplate,
		IsDefault:   p.isDefault,
	}

	if v := pt.Name(); v != nil {
		at.Name = *v
	}
	if v := pt.Description(); v != nil {
		at.Description = *v
	}
	if v := pt.ContentType(); v != nil {
		at.ContentType = content.Type(*v)
	}
	if v := pt.Fields(); v != nil {
		at.Fields = v
	}
	if v := pt.Criteria(); v != nil {
		at.Criteria = *v
	}
	if v := pt.TextModel(); v != nil {
		at.TextModel = *v
	}
	if v := pt.ImageModel(); v != nil {
		at.ImageModel = *v
	}
	if v := pt.Format(); v != nil {
		at.Format = domain.ExportFormat(*v)
	}
	if v := pt.UITemplate(); v != nil {
		at.UITemplate = *v
	}
	if v := pt.IsDefault(); v != nil {
		at.IsDefault = *v
	}

	updated, err := New(p.id, at, p.createdAt)
	if err != nil {
		return Preset{}, err
	}
	updated.updatedAt = now
	return updated, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
