package preset

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	dompreset "github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
)

// presetToHash converts a domain Preset to a map for HSET.
func presetToHash(p dompreset.Preset) (map[string]string, error) {
	criteriaJSON, err := json.Marshal(p.Criteria())
	if err != nil {
		return nil, fmt.Errorf("marshal criteria: %w", err)
	}
	fieldsJSON, err := json.Marshal(p.Fields())
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}

	isDefault := "0"
	if p.IsDefault() {
		isDefault = "1"
	}

	return map[string]string{
		"id":            p.ID(),
		"name":          p.Name(),
		"description":   p.Description(),
		"content_type":  string(p.ContentType()),
		"fields_json":   string(fieldsJSON),
		"criteria_json": string(criteriaJSON),
		"text_model":    p.TextModel(),
		"image_model":   p.ImageModel(),
		"export_format": string(p.Format()),
		"ui_template":   p.UITemplate(),
		"is_default":    isDefault,
		"created_at":    strconv.FormatInt(p.CreatedAt(), 10),
		"updated_at":    strconv.FormatInt(p.UpdatedAt(), 10),
	}, nil
}

// presetFromHash hydrates a domain Preset from an HGETALL result map.
func presetFromHash(m map[string]string) (dompreset.Preset, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := strconv.ParseInt(m["updated_at"], 10, 64)
	if err != nil {
		return dompreset.Preset{}, fmt.Errorf("invalid updated_at: %w", err)
	}

	var fields []string
	if s := m["fields_json"]; s != "" {
		if err := json.Unmarshal([]byte(s), &fields); err != nil {
			return dompreset.Preset{}, fmt.Errorf("unmarshal fields: %w", err)
		}
	}

	var cs criteria.Set
	if s := m["criteria_json"]; s != "" {
		if err := json.Unmarshal([]byte(s), &cs); err != nil {
			return dompreset.Preset{}, fmt.Errorf("unmarshal criteria: %w", err)
		}
	}

	return dompreset.Reconstruct(m["id"], dompreset.Attributes{
		Name:        m["name"],
		Description: m["description"],
		ContentType: content.Type(m["content_type"]),
		Fields:      fields,
		Criteria:    cs,
		TextModel:   m["text_model"],
		ImageModel:  m["image_model"],
		Format:      domain.ExportFormat(m["export_format"]),
		UITemplate:  m["ui_template"],
		IsDefault:   m["is_default"] == "1",
	}, createdAt, updatedAt), nil
}
