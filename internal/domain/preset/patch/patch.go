package patch

import (
	"fmt"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
)

// Patch is a partial preset update. Nil fields are unchanged.
type Patch struct {
	name        *string
	description *string
	contentType *string
	fields      []string
	criteria    *criteria.Set
	textModel   *string
	imageModel  *string
	format      *string
	uiTemplate  *string
	isDefault   *bool
}

// Params holds the optional fields of a Patch.
type Params struct {
	Name        *string
	Description *string
	ContentType *string
	Fields      []string
	Criteria    *criteria.Set
	TextModel   *string
	ImageModel  *string
	Format      *string
	UITemplate  *string
	IsDefault   *bool
}

// New validates and creates a Patch. At least one field must be provided.
// Field values are validated against the target preset on application.
func New(p Params) (Patch, error) {
	if p.Name == nil && p.Description == nil && p.ContentType == nil &&
		p.Fields == nil && p.Criteria == nil && p.TextModel == nil &&
		p.ImageModel == nil && p.Format == nil && p.UITemplate == nil &&
		p.IsDefault == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	return Patch{
		name:        p.Name,
		description: p.Description,
		contentType: p.ContentType,
		fields:      p.Fields,
		criteria:    p.Criteria,
		textModel:   p.TextModel,
		imageModel:  p.ImageModel,
		format:      p.Format,
		uiTemplate:  p.UITemplate,
		isDefault:   p.IsDefault,
	}, nil
}

// Name returns the new name, or nil if unchanged.
func (p Patch) Name() *string { return p.name }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// ContentType returns the new content type, or nil if unchanged.
func (p Patch) ContentType() *string { return p.contentType }

// Fields returns the new field allow-list, or nil if unchanged.
func (p Patch) Fields() []string { return p.fields }

// Criteria returns the new criteria set, or nil if unchanged.
func (p Patch) Criteria() *criteria.Set { return p.criteria }

// TextModel returns the new text model id, or nil if unchanged.
func (p Patch) TextModel() *string { return p.textModel }

// ImageModel returns the new image model id, or nil if unchanged.
func (p Patch) ImageModel() *string { return p.imageModel }

// Format returns the new export format, or nil if unchanged.
func (p Patch) Format() *string { return p.format }

// UITemplate returns the new UI template, or nil if unchanged.
func (p Patch) UITemplate() *string { return p.uiTemplate }

// IsDefault returns the new default flag, or nil if unchanged.
func (p Patch) IsDefault() *bool { return p.isDefault }

// SetsDefault reports whether the patch promotes the preset to default.
func (p Patch) SetsDefault() bool { return p.isDefault != nil && *p.isDefault }
