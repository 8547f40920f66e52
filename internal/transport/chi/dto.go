package chi

import (
	"encoding/json"
	"fmt"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset/patch"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/stats"
)

// Error codes returned to API clients.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeNotFound           = "not_found"
	codeAlreadyExists      = "already_exists"
	codeDefaultPreset      = "default_preset"
	codeUnsupportedFormat  = "unsupported_format"
	codeMetadataSource     = "metadata_source_error"
	codeGenerationProvider = "generation_provider_error"
	codeNotConfigured      = "not_configured"
	codeInternalError      = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// filterRequest is the body of POST /filter.
type filterRequest struct {
	Records     []record.Record `json:"records"`
	ContentType string          `json:"content_type"`
	Criteria    json.RawMessage `json:"criteria"`
}

// filterResponse carries the surviving records plus retention statistics.
type filterResponse struct {
	Items []record.Record `json:"items"`
	Stats stats.Summary   `json:"stats"`
}

// applyRequest is the body of POST /presets/{id}/apply.
type applyRequest struct {
	Records []record.Record `json:"records"`
}

// applyResponse carries the filtered and projected records of a preset run.
type applyResponse struct {
	Items    []record.Record `json:"items"`
	Stats    stats.Summary   `json:"stats"`
	PresetID string          `json:"preset_id"`
	Format   string          `json:"export_format"`
}

// presetRequest is the body of POST /presets.
type presetRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ContentType  string          `json:"content_type"`
	Fields       []string        `json:"fields"`
	Criteria     json.RawMessage `json:"criteria"`
	TextModel    string          `json:"text_model"`
	ImageModel   string          `json:"image_model"`
	ExportFormat string          `json:"export_format"`
	UITemplate   string          `json:"ui_template"`
	IsDefault    bool            `json:"is_default"`
}

// presetPatchRequest is the body of PATCH /presets/{id}. Absent fields are
// unchanged.
type presetPatchRequest struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	ContentType  *string         `json:"content_type"`
	Fields       []string        `json:"fields"`
	Criteria     json.RawMessage `json:"criteria"`
	TextModel    *string         `json:"text_model"`
	ImageModel   *string         `json:"image_model"`
	ExportFormat *string         `json:"export_format"`
	UITemplate   *string         `json:"ui_template"`
	IsDefault    *bool           `json:"is_default"`
}

// presetResponse is the JSON shape of a preset.
type presetResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	ContentType  string       `json:"content_type"`
	Fields       []string     `json:"fields,omitempty"`
	Criteria     criteria.Set `json:"criteria"`
	TextModel    string       `json:"text_model,omitempty"`
	ImageModel   string       `json:"image_model,omitempty"`
	ExportFormat string       `json:"export_format"`
	UITemplate   string       `json:"ui_template"`
	IsDefault    bool         `json:"is_default"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
}

// presetListResponse wraps a preset listing.
type presetListResponse struct {
	Items []presetResponse `json:"items"`
	Total int              `json:"total"`
}

// exportRequest is the body of POST /export.
type exportRequest struct {
	Records     []record.Record `json:"records"`
	ContentType string          `json:"content_type"`
	Format      string          `json:"format"`
	Filename    string          `json:"filename"`
	Template    string          `json:"template"`
	TextStyle   string          `json:"text_style"`
}

// summarizeRequest is the body of POST /enrich/summaries.
type summarizeRequest struct {
	Records []record.Record `json:"records"`
	Model   string          `json:"model"`
}

// generateRequest is the body of the single-text enrichment endpoints.
type generateRequest struct {
	Source string `json:"source"`
	Model  string `json:"model"`
	Length string `json:"length"`
}

// fetchResponse wraps fetched records.
type fetchResponse struct {
	Items []record.Record `json:"items"`
	Total int             `json:"total"`
}

func presetToDTO(p dompreset.Preset) presetResponse {
	return presetResponse{
		ID:           p.ID(),
		Name:         p.Name(),
		Description:  p.Description(),
		ContentType:  string(p.ContentType()),
		Fields:       p.Fields(),
		Criteria:     p.Criteria(),
		TextModel:    p.TextModel(),
		ImageModel:   p.ImageModel(),
		ExportFormat: string(p.Format()),
		UITemplate:   p.UITemplate(),
		IsDefault:    p.IsDefault(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func attributesFromDTO(req presetRequest) (dompreset.Attributes, error) {
	cs, err := criteria.FromJSON(req.Criteria)
	if err != nil {
		return dompreset.Attributes{}, err
	}
	return dompreset.Attributes{
		Name:        req.Name,
		Description: req.Description,
		ContentType: content.Type(req.ContentType),
		Fields:      req.Fields,
		Criteria:    cs,
		TextModel:   req.TextModel,
		ImageModel:  req.ImageModel,
		Format:      domain.ExportFormat(req.ExportFormat),
		UITemplate:  req.UITemplate,
		IsDefault:   req.IsDefault,
	}, nil
}

func patchFromDTO(req presetPatchRequest) (patch.Patch, error) {
	params := patch.Params{
		Name:        req.Name,
		Description: req.Description,
		ContentType: req.ContentType,
		Fields:      req.Fields,
		TextModel:   req.TextModel,
		ImageModel:  req.ImageModel,
		Format:      req.ExportFormat,
		UITemplate:  req.UITemplate,
		IsDefault:   req.IsDefault,
	}
	if len(req.Criteria) > 0 {
		cs, err := criteria.FromJSON(req.Criteria)
		if err != nil {
			return patch.Patch{}, err
		}
		params.Criteria = &cs
	}
	p, err := patch.New(params)
	if err != nil {
		return patch.Patch{}, fmt.Errorf("build patch: %w", err)
	}
	return p, nil
}
