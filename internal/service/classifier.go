package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/llm"
	"go.uber.org/zap"
)

const (
	// aiConfidence marks a segment as AI-assigned but not verified
	aiConfidence = 0.8

	categorisationExcerpt = 2000
	summaryExcerpt        = 1500
	fallbackSummaryLength = 200
)

// Classifier assigns a segment and produces a summary for a document via
// the generation service. Both calls degrade independently: categorisation
// falls back to the General segment at confidence 0, summarisation to a
// truncated excerpt. Neither failure ever aborts ingestion.
type Classifier struct {
	generator llm.Generator
	logger    *zap.Logger
}

// NewClassifier creates a new classifier
func NewClassifier(generator llm.Generator, logger *zap.Logger) *Classifier {
	return &Classifier{generator: generator, logger: logger}
}

// Categorise picks a segment for the document from the given list. It
// returns the matched segment with aiConfidence, or the General segment
// (nil if no such segment exists) with confidence 0 on any failure.
func (c *Classifier) Categorise(ctx context.Context, title, content string, segments []*domain.Segment) (*domain.Segment, float64) {
	suggested, err := c.generator.Generate(ctx, []llm.Message{
		{Role: "user", Content: categorisationPrompt(title, content, segments)},
	})
	if err != nil {
		c.logger.Warn("categorisation failed, using default segment", zap.Error(err))
		return defaultSegment(segments), 0
	}

	suggested = strings.TrimSpace(suggested)
	for _, segment := range segments {
		if strings.EqualFold(segment.Name, suggested) {
			return segment, aiConfidence
		}
	}

	c.logger.Warn("categorisation returned unknown segment, using default",
		zap.String("suggested", suggested))
	return defaultSegment(segments), 0
}

// Summarise produces a 2-3 sentence summary of the content, falling back to
// a truncated excerpt when generation fails.
func (c *Classifier) Summarise(ctx context.Context, content string) string {
	summary, err := c.generator.Generate(ctx, []llm.Message{
		{Role: "user", Content: summaryPrompt(content)},
	})
	if err != nil {
		c.logger.Warn("summary generation failed, using excerpt", zap.Error(err))
		return excerpt(content, fallbackSummaryLength) + "..."
	}
	return strings.TrimSpace(summary)
}

func categorisationPrompt(title, content string, segments []*domain.Segment) string {
	var list strings.Builder
	for _, s := range segments {
		fmt.Fprintf(&list, "%s: %s\n", s.Name, s.Description)
	}

	return fmt.Sprintf(`Analyse the following document content and categorise it into one of these business segments:

%s
Document Title: %s
Document Content: %s...

Respond with only the exact segment name that best matches this document.`,
		list.String(), title, excerpt(content, categorisationExcerpt))
}

func summaryPrompt(content string) string {
	return fmt.Sprintf("Summarise this business document in 2-3 sentences:\n\n%s",
		excerpt(content, summaryExcerpt))
}

func defaultSegment(segments []*domain.Segment) *domain.Segment {
	for _, segment := range segments {
		if strings.EqualFold(segment.Name, domain.DefaultSegmentName) {
			return segment
		}
	}
	return nil
}

func excerpt(content string, length int) string {
	runes := []rune(content)
	if len(runes) <= length {
		return content
	}
	return string(runes[:length])
}
