package projection

import (
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/preset"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// Service narrows records down to a preset's field allow-list.
type Service struct {
	logger *zap.Logger
}

// New creates a projection service.
func New(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Project returns a copy of the record reduced to the preset's field
// allow-list, in allow-list order of first mention. The identity field for
// the preset's content type is always carried when the record has it, even
// if the allow-list omits it. An empty allow-list means no reduction: the
// whole record is cloned. Fields the record lacks are skipped silently.
func (s *Service) Project(rec record.Record, p preset.Preset) record.Record {
	fields := p.Fields()
	if len(fields) == 0 {
		return rec.Clone()
	}

	out := make(record.Record, len(fields)+1)
	if idField := p.ContentType().IDField(); idField != "" && rec.Has(idField) {
		out[idField] = rec[idField]
	}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ProjectAll projects every record through the preset, preserving order.
// The input slice and its records are never mutated.
func (s *Service) ProjectAll(records []record.Record, p preset.Preset) []record.Record {
	out := make([]record.Record, len(records))
	for i, rec := range records {
		out[i] = s.Project(rec, p)
	}
	s.logger.Debug("projection applied",
		zap.String("preset_id", p.ID()),
		zap.Int("fields", len(p.Fields())),
		zap.Int("records", len(out)),
	)
	return out
}
