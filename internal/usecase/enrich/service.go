package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Hylst/YoutubeDataCrawler/internal/domain/record"
)

// DescriptionLength selects how long a generated description should be.
type DescriptionLength string

// Description lengths.
const (
	LengthShort  DescriptionLength = "short"
	LengthMedium DescriptionLength = "medium"
	LengthLong   DescriptionLength = "long"
)

var lengthInstructions = map[DescriptionLength]string{
	LengthShort:  "2-3 short sentences",
	LengthMedium: "1-2 paragraphs (100-200 words)",
	LengthLong:   "3-4 detailed paragraphs (300-500 words)",
}

// Service produces AI-generated metadata for fetched records.
type Service struct {
	generator Generator
	logger    *zap.Logger
}

// New creates an enrichment service.
func New(generator Generator, logger *zap.Logger) *Service {
	return &Service{generator: generator, logger: logger}
}

// Summarize attaches an "ai_summary" field to a copy of each record. Records
// whose generation fails are carried through unsummarized with a warning, so
// one provider hiccup never loses the batch. The input is never mutated.
func (s *Service) Summarize(
	ctx context.Context, records []record.Record, model string,
) []record.Record {
	out := make([]record.Record, len(records))
	for i, rec := range records {
		c := rec.Clone()
		out[i] = c

		source := sourceText(rec)
		if source == "" {
			continue
		}
		summary, err := s.generator.Generate(ctx, model, summaryPrompt(source))
		if err != nil {
			s.logger.Warn("summary generation failed",
				zap.String("title", rec.String("title")),
				zap.Error(err))
			continue
		}
		c["ai_summary"] = strings.TrimSpace(summary)
	}
	return out
}

// Title generates an SEO-friendly title from source content.
func (s *Service) Title(ctx context.Context, source, model string) (string, error) {
	prompt := fmt.Sprintf(`Write a catchy, SEO-optimized YouTube title based on the content below.
The title must:
- be 50-60 characters long
- invite the click without misleading clickbait
- carry relevant keywords

Source content:
%s

Optimized YouTube title:`, source)

	out, err := s.generator.Generate(ctx, model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Description generates a description of the requested length from source
// content. An unknown length falls back to medium.
func (s *Service) Description(
	ctx context.Context, source, model string, length DescriptionLength,
) (string, error) {
	instruction, ok := lengthInstructions[length]
	if !ok {
		instruction = lengthInstructions[LengthMedium]
	}

	prompt := fmt.Sprintf(`Write an engaging YouTube description based on the content below.
The description must:
- be %s
- be informative and engaging
- carry relevant keywords
- invite interaction (like, comment, subscribe)

Source content:
%s

YouTube description:`, instruction, source)

	out, err := s.generator.Generate(ctx, model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Tags generates a keyword tag list from source content.
func (s *Service) Tags(ctx context.Context, source, model string) ([]string, error) {
	prompt := fmt.Sprintf(`List 10-15 relevant YouTube tags based on the content below.
The tags must:
- fit the content
- mix popular and specific keywords
- be separated by commas

Source content:
%s

YouTube tags (comma-separated):`, source)

	out, err := s.generator.Generate(ctx, model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	parts := strings.Split(out, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func summaryPrompt(source string) string {
	return fmt.Sprintf(`Summarize the following YouTube content in 2-3 sentences.
Keep the key facts and drop filler.

Source content:
%s

Summary:`, source)
}

func sourceText(rec record.Record) string {
	title := rec.String("title")
	desc := rec.String("description")
	switch {
	case title == "" && desc == "":
		return ""
	case desc == "":
		return title
	case title == "":
		return desc
	}
	return title + "\n" + desc
}
