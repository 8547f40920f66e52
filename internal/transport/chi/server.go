package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/criteria"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/stats"
	"github.com/Hylst/YoutubeDataCrawler/internal/metrics"
	enrichuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/enrich"
	exportuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/export"
	fetchuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/fetch"
	filteruc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/filter"
	healthuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/health"
	presetuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/preset"
	projectionuc "github.com/Hylst/YoutubeDataCrawler/internal/usecase/projection"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes the HTTP API onto the use case services. The fetch and
// enrich services are optional: nil means the corresponding surface is not
// configured and its routes answer 503.
type Server struct {
	presets       *presetuc.Service
	filter        *filteruc.Service
	projection    *projectionuc.Service
	export        *exportuc.Service
	enrich        *enrichuc.Service
	fetch         *fetchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	presets *presetuc.Service,
	filter *filteruc.Service,
	projection *projectionuc.Service,
	export *exportuc.Service,
	enrich *enrichuc.Service,
	fetch *fetchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		presets:    presets,
		filter:     filter,
		projection: projection,
		export:     export,
		enrich:     enrich,
		fetch:      fetch,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrDefaultPreset, http.StatusConflict, codeDefaultPreset),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, codeUnsupportedFormat),
		sentinelHandler(domain.ErrMetadataSource, http.StatusBadGateway, codeMetadataSource),
		sentinelHandler(domain.ErrGenerationProvider, http.StatusBadGateway, codeGenerationProvider),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/filter", s.FilterRecords)

		r.Route("/presets", func(r chi.Router) {
			r.Post("/", s.CreatePreset)
			r.Get("/", s.ListPresets)
			r.Get("/default", s.GetDefaultPreset)
			r.Get("/{id}", s.GetPreset)
			r.Patch("/{id}", s.UpdatePreset)
			r.Delete("/{id}", s.DeletePreset)
			r.Post("/{id}/apply", s.ApplyPreset)
		})

		r.Post("/export", s.ExportRecords)
		r.Get("/exports", s.ListExports)

		r.Route("/enrich", func(r chi.Router) {
			r.Post("/summaries", s.Summarize)
			r.Post("/title", s.GenerateTitle)
			r.Post("/description", s.GenerateDescription)
			r.Post("/tags", s.GenerateTags)
		})

		r.Route("/fetch", func(r chi.Router) {
			r.Get("/videos", s.fetchByIDs(content.Video))
			r.Get("/channels", s.fetchByIDs(content.Channel))
			r.Get("/playlists", s.fetchByIDs(content.Playlist))
			r.Get("/search", s.SearchVideos)
		})
	})
}

// FilterRecords handles POST /api/v1/filter.
func (s *Server) FilterRecords(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ct := content.Type(req.ContentType)
	if !ct.IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"content_type must be one of video, channel, playlist")
		return
	}

	cs, err := criteria.FromJSON(req.Criteria)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	filtered := s.filter.Apply(req.Records, ct, cs)
	metrics.FilterRunsTotal.WithLabelValues(string(ct)).Inc()
	metrics.FilterRecordsTotal.WithLabelValues(string(ct), "seen").Add(float64(len(req.Records)))
	metrics.FilterRecordsTotal.WithLabelValues(string(ct), "kept").Add(float64(len(filtered)))

	writeJSON(w, http.StatusOK, filterResponse{
		Items: filtered,
		Stats: stats.Compute(req.Records, filtered),
	})
}

// CreatePreset handles POST /api/v1/presets.
func (s *Server) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	at, err := attributesFromDTO(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	p, err := s.presets.Create(r.Context(), at)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/presets/"+p.ID())
	writeJSON(w, http.StatusCreated, presetToDTO(p))
}

// ListPresets handles GET /api/v1/presets.
func (s *Server) ListPresets(w http.ResponseWriter, r *http.Request) {
	ct := content.Type(r.URL.Query().Get("content_type"))
	if ct != "" && !ct.IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"content_type must be one of video, channel, playlist")
		return
	}

	presets, err := s.presets.List(r.Context(), ct)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]presetResponse, len(presets))
	for i, p := range presets {
		items[i] = presetToDTO(p)
	}
	writeJSON(w, http.StatusOK, presetListResponse{Items: items, Total: len(items)})
}

// GetPreset handles GET /api/v1/presets/{id}.
func (s *Server) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetToDTO(p))
}

// GetDefaultPreset handles GET /api/v1/presets/default.
func (s *Server) GetDefaultPreset(w http.ResponseWriter, r *http.Request) {
	ct := content.Type(r.URL.Query().Get("content_type"))
	if !ct.IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"content_type query parameter is required")
		return
	}

	p, found, err := s.presets.GetDefault(r.Context(), ct)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, codeNotFound,
			"no default preset for content type "+string(ct))
		return
	}
	writeJSON(w, http.StatusOK, presetToDTO(p))
}

// UpdatePreset handles PATCH /api/v1/presets/{id}.
func (s *Server) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pt, err := patchFromDTO(req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	p, err := s.presets.Update(r.Context(), chi.URLParam(r, "id"), pt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presetToDTO(p))
}

// DeletePreset handles DELETE /api/v1/presets/{id}.
func (s *Server) DeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyPreset handles POST /api/v1/presets/{id}/apply: filter with the
// preset's criteria, then project onto its field allow-list.
func (s *Server) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	filtered := s.filter.Apply(req.Records, p.ContentType(), p.Criteria())
	projected := s.projection.ProjectAll(filtered, p)
	metrics.FilterRunsTotal.WithLabelValues(string(p.ContentType())).Inc()

	writeJSON(w, http.StatusOK, applyResponse{
		Items:    projected,
		Stats:    stats.Compute(req.Records, filtered),
		PresetID: p.ID(),
		Format:   string(p.Format()),
	})
}

// ExportRecords handles POST /api/v1/export.
func (s *Server) ExportRecords(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.export.Export(r.Context(), exportuc.Request{
		Records:     req.Records,
		ContentType: content.Type(req.ContentType),
		Format:      domain.ExportFormat(req.Format),
		Filename:    req.Filename,
		Template:    req.Template,
		TextStyle:   exportuc.Style(req.TextStyle),
	})
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(req.Format, "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.ExportsTotal.WithLabelValues(result.Format, "success").Inc()
	writeJSON(w, http.StatusCreated, result)
}

// ListExports handles GET /api/v1/exports.
func (s *Server) ListExports(w http.ResponseWriter, r *http.Request) {
	entries, err := s.export.History(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": entries,
		"total": len(entries),
	})
}

// Summarize handles POST /api/v1/enrich/summaries.
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	if s.enrich == nil {
		writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "enrichment is not configured")
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out := s.enrich.Summarize(r.Context(), req.Records, req.Model)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": len(out),
	})
}

// GenerateTitle handles POST /api/v1/enrich/title.
func (s *Server) GenerateTitle(w http.ResponseWriter, r *http.Request) {
	s.generateText(w, r, func(r *http.Request, req generateRequest) (any, error) {
		title, err := s.enrich.Title(r.Context(), req.Source, req.Model)
		if err != nil {
			return nil, err
		}
		return map[string]string{"title": title}, nil
	})
}

// GenerateDescription handles POST /api/v1/enrich/description.
func (s *Server) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	s.generateText(w, r, func(r *http.Request, req generateRequest) (any, error) {
		desc, err := s.enrich.Description(
			r.Context(), req.Source, req.Model, enrichuc.DescriptionLength(req.Length),
		)
		if err != nil {
			return nil, err
		}
		return map[string]string{"description": desc}, nil
	})
}

// GenerateTags handles POST /api/v1/enrich/tags.
func (s *Server) GenerateTags(w http.ResponseWriter, r *http.Request) {
	s.generateText(w, r, func(r *http.Request, req generateRequest) (any, error) {
		tags, err := s.enrich.Tags(r.Context(), req.Source, req.Model)
		if err != nil {
			return nil, err
		}
		return map[string]any{"tags": tags}, nil
	})
}

func (s *Server) generateText(
	w http.ResponseWriter,
	r *http.Request,
	generate func(r *http.Request, req generateRequest) (any, error),
) {
	if s.enrich == nil {
		writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "enrichment is not configured")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "source is required")
		return
	}

	resp, err := generate(r, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// fetchByIDs builds the GET handler for one content type's fetch route.
func (s *Server) fetchByIDs(ct content.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.fetch == nil {
			writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "metadata fetching is not configured")
			return
		}

		ids := splitIDs(r.URL.Query().Get("ids"))
		if len(ids) == 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "ids query parameter is required")
			return
		}

		records, err := s.fetch.ByIDs(r.Context(), ct, ids)
		if err != nil {
			metrics.FetchRequestsTotal.WithLabelValues(string(ct), "error").Inc()
			s.handleDomainError(w, err)
			return
		}

		metrics.FetchRequestsTotal.WithLabelValues(string(ct), "success").Inc()
		writeJSON(w, http.StatusOK, fetchResponse{Items: records, Total: len(records)})
	}
}

// SearchVideos handles GET /api/v1/fetch/search.
func (s *Server) SearchVideos(w http.ResponseWriter, r *http.Request) {
	if s.fetch == nil {
		writeError(w, http.StatusServiceUnavailable, codeNotConfigured, "metadata fetching is not configured")
		return
	}

	query := r.URL.Query().Get("q")
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
			return
		}
		limit = parsed
	}

	records, err := s.fetch.Search(r.Context(), query, limit)
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues("search", "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.FetchRequestsTotal.WithLabelValues("search", "success").Inc()
	writeJSON(w, http.StatusOK, fetchResponse{Items: records, Total: len(records)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrAlreadyExists,
		domain.ErrDefaultPreset,
		domain.ErrUnsupportedFormat,
		domain.ErrMetadataSource,
		domain.ErrGenerationProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
