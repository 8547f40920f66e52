package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/codec"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/content"
	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// Style selects the plain-text rendering density.
type Style string

// Plain-text styles.
const (
	StyleSimple   Style = "simple"
	StyleDetailed Style = "detailed"
	StyleCompact  Style = "compact"
)

// historyLimit caps the export log listing.
const historyLimit = 50

// Request describes one export run. Filename is optional and carries no
// extension; Template overrides the stock markdown template; TextStyle
// defaults to detailed.
type Request struct {
	Records     []record.Record
	ContentType content.Type
	Format      domain.ExportFormat
	Filename    string
	Template    string
	TextStyle   Style
}

// Result reports where an export landed.
type Result struct {
	FilePath  string `json:"file_path"`
	Format    string `json:"format"`
	ItemCount int    `json:"item_count"`
}

// Service renders record collections to files in the output directory and
// keeps an export log. The history sink is optional; a nil History disables
// logging without failing exports.
type Service struct {
	outputDir string
	history   History
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an export service, materializing the output directory.
func New(outputDir string, history History, logger *zap.Logger) (*Service, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Service{
		outputDir: outputDir,
		history:   history,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Export renders the records in the requested format and writes the file.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if !req.ContentType.IsValid() {
		return Result{}, fmt.Errorf("unknown content type %q: %w", req.ContentType, domain.ErrValidation)
	}

	var body []byte
	var err error
	switch req.Format {
	case domain.FormatJSON:
		body, err = s.renderJSON(req.Records)
	case domain.FormatMarkdown:
		body, err = s.renderMarkdown(req.Records, req.ContentType, req.Template)
	case domain.FormatText:
		body, err = s.renderText(req.Records, req.ContentType, req.TextStyle)
	case domain.FormatCSV:
		body, err = s.renderCSV(req.Records, req.ContentType)
	default:
		return Result{}, fmt.Errorf("export format %q: %w", req.Format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return Result{}, err
	}

	path := s.filePath(req)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return Result{}, fmt.Errorf("write export file: %w", err)
	}

	s.logExport(ctx, req.Format, path, len(req.Records))

	s.logger.Info("export written",
		zap.String("format", string(req.Format)),
		zap.String("path", path),
		zap.Int("items", len(req.Records)),
	)
	return Result{FilePath: path, Format: string(req.Format), ItemCount: len(req.Records)}, nil
}

// History returns the most recent exports, newest first.
func (s *Service) History(ctx context.Context) ([]Entry, error) {
	if s.history == nil {
		return []Entry{}, nil
	}
	entries, err := s.history.Recent(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load export history: %w", err)
	}
	return entries, nil
}

func (s *Service) filePath(req Request) string {
	name := req.Filename
	if name == "" {
		name = fmt.Sprintf("export_%s_%s", req.ContentType, s.now().Format("20060102_150405"))
	}
	return filepath.Join(s.outputDir, name+"."+req.Format.Extension())
}

// logExport appends to the export log. Log failures never fail the export.
func (s *Service) logExport(ctx context.Context, format domain.ExportFormat, path string, count int) {
	if s.history == nil {
		return
	}
	entry := Entry{
		ID:        uuid.NewString(),
		Format:    string(format),
		FilePath:  path,
		ItemCount: count,
		CreatedAt: s.now().Unix(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Warn("export log append failed", zap.Error(err))
	}
}

// renderJSON wraps the records in an envelope carrying export metadata.
func (s *Service) renderJSON(records []record.Record) ([]byte, error) {
	if records == nil {
		records = []record.Record{}
	}
	envelope := map[string]any{
		"export_info": map[string]any{
			"timestamp":   s.now().Format(time.RFC3339),
			"total_items": len(records),
			"format":      string(domain.FormatJSON),
		},
		"data": records,
	}
	body, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return body, nil
}

func (s *Service) renderMarkdown(
	records []record.Record, ct content.Type, template string,
) ([]byte, error) {
	if template == "" {
		template = markdownTemplates[ct]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Export\n\n", titleCase(string(ct)))
	fmt.Fprintf(&b, "**Export date:** %s\n", s.now().Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "**Item count:** %d\n\n", len(records))
	b.WriteString("---\n\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, titleOf(rec))
		b.WriteString(fillTemplate(template, rec))
		b.WriteString("\n\n")
	}
	return []byte(b.String()), nil
}

func (s *Service) renderText(
	records []record.Record, ct content.Type, style Style,
) ([]byte, error) {
	switch style {
	case "":
		style = StyleDetailed
	case StyleSimple, StyleDetailed, StyleCompact:
	default:
		return nil, fmt.Errorf("unknown text style %q: %w", style, domain.ErrValidation)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s EXPORT\n", strings.ToUpper(string(ct)))
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Export date: %s\n", s.now().Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Item count: %d\n\n", len(records))

	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, titleOf(rec))
		b.WriteString(strings.Repeat("-", 40) + "\n")
		writeTextItem(&b, rec, ct, style)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func writeTextItem(b *strings.Builder, rec record.Record, ct content.Type, style Style) {
	switch style {
	case StyleSimple:
		fmt.Fprintf(b, "URL: https://youtube.com/watch?v=%s\n", rec.String("video_id"))
		fmt.Fprintf(b, "Channel: %s\n", rec.String("channel_title"))

	case StyleDetailed:
		switch ct {
		case content.Video:
			fmt.Fprintf(b, "Video ID: %s\n", rec.String("video_id"))
			fmt.Fprintf(b, "Channel: %s\n", rec.String("channel_title"))
			fmt.Fprintf(b, "Duration: %s\n", rec.String("duration"))
			fmt.Fprintf(b, "Views: %s\n", groupDigits(rec.Int("view_count")))
			fmt.Fprintf(b, "Likes: %s\n", groupDigits(rec.Int("like_count")))
			fmt.Fprintf(b, "Published: %s\n", rec.String("published_at"))
			if desc := rec.String("description"); desc != "" {
				fmt.Fprintf(b, "Description: %s\n", truncate(desc, 200))
			}
		case content.Channel:
			fmt.Fprintf(b, "Channel ID: %s\n", rec.String("channel_id"))
			fmt.Fprintf(b, "Subscribers: %s\n", groupDigits(rec.Int("subscriber_count")))
			fmt.Fprintf(b, "Videos: %s\n", groupDigits(rec.Int("video_count")))
			fmt.Fprintf(b, "Total views: %s\n", groupDigits(rec.Int("view_count")))
			fmt.Fprintf(b, "Country: %s\n", rec.String("country"))
		case content.Playlist:
			fmt.Fprintf(b, "Playlist ID: %s\n", rec.String("playlist_id"))
			fmt.Fprintf(b, "Channel: %s\n", rec.String("channel_title"))
			fmt.Fprintf(b, "Items: %s\n", groupDigits(rec.Int("item_count")))
			fmt.Fprintf(b, "Published: %s\n", rec.String("published_at"))
		}

	case StyleCompact:
		fmt.Fprintf(b, "%s | %s views\n",
			rec.String("channel_title"), groupDigits(rec.Int("view_count")))
	}
}

func (s *Service) renderCSV(records []record.Record, ct content.Type) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to export: %w", domain.ErrValidation)
	}
	fieldnames := csvFieldnames[ct]

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(fieldnames); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(fieldnames))
	for _, rec := range records {
		for i, f := range fieldnames {
			row[i] = cellValue(rec, f)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return []byte(b.String()), nil
}

// cellValue renders one record field as CSV text, leaving absent fields empty.
func cellValue(rec record.Record, field string) string {
	v, ok := rec[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ";")
	case float64, float32, int, int64, json.Number:
		// Whole numbers render without a decimal point so counts decoded
		// as float64 come out as plain integers.
		f := rec.Float(field)
		if f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// fillTemplate substitutes {field} placeholders with record values.
// Timestamps render as dd/mm/yyyy, count fields with grouped digits.
func fillTemplate(template string, rec record.Record) string {
	out := template
	for key, v := range rec {
		placeholder := "{" + key + "}"
		if !strings.Contains(out, placeholder) {
			continue
		}
		var text string
		switch {
		case key == "published_at":
			if t := codec.ParseTimestamp(rec.String(key)); !t.IsZero() {
				text = t.Format("02/01/2006")
			} else {
				text = rec.String(key)
			}
		case countFields[key]:
			text = groupDigits(rec.Int(key))
		case v == nil:
			text = ""
		default:
			text = fmt.Sprint(v)
		}
		out = strings.ReplaceAll(out, placeholder, text)
	}
	// Placeholders the record has no value for render empty.
	return unfilledPlaceholders.ReplaceAllString(out, "")
}

func titleOf(rec record.Record) string {
	if t := rec.String("title"); t != "" {
		return t
	}
	return "Untitled"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate cuts a string to max runes so multi-byte text stays valid UTF-8.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// groupDigits renders 1234567 as "1 234 567".
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}
