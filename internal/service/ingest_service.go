package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/extract"
	"github.com/bizkb/bizkb/internal/repository"
	"github.com/bizkb/bizkb/internal/textproc"
	"go.uber.org/zap"
)

// UploadInput is one document upload: a title plus exactly one of pasted
// content or a file.
type UploadInput struct {
	Title    string
	Content  string
	Filename string
	FileType string
	FileSize int64
	Data     []byte
}

// IngestService sequences extraction, categorisation, summarisation,
// keyword extraction, and persistence for one document as a unit of work.
type IngestService struct {
	documents  *repository.DocumentRepository
	segments   *repository.SegmentRepository
	classifier *Classifier
	chunkSize  int
	logger     *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	documents *repository.DocumentRepository,
	segments *repository.SegmentRepository,
	classifier *Classifier,
	chunkSize int,
	logger *zap.Logger,
) *IngestService {
	if chunkSize <= 0 {
		chunkSize = textproc.DefaultChunkSize
	}
	return &IngestService{
		documents:  documents,
		segments:   segments,
		classifier: classifier,
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

// Ingest validates and processes one upload. Generation-service failures
// degrade to the documented fallbacks; only validation, extraction, and
// storage failures are returned to the caller.
func (s *IngestService) Ingest(ctx context.Context, in UploadInput) (*domain.IngestResult, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	hasFile := in.Data != nil
	hasContent := strings.TrimSpace(in.Content) != ""
	if hasFile == hasContent {
		return nil, fmt.Errorf("%w: supply either a file or pasted content", domain.ErrValidation)
	}

	content := in.Content
	fileType := in.FileType
	fileSize := in.FileSize
	if hasFile {
		extracted, err := extract.Extract(in.Filename, in.FileType, in.Data)
		if err != nil {
			return nil, err
		}
		content = extracted
	} else {
		if fileType == "" {
			fileType = "text/plain"
		}
		fileSize = int64(len(content))
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: no content found in the document; ensure the file contains readable text or paste content directly", domain.ErrEmptyContent)
	}

	segments, err := s.segments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}

	segment, confidence := s.classifier.Categorise(ctx, in.Title, content, segments)
	summary := s.classifier.Summarise(ctx, content)
	keywords := strings.Join(textproc.Keywords(content), ",")
	chunks := textproc.Chunk(content, s.chunkSize)

	doc := &domain.Document{
		Title:           in.Title,
		Filename:        in.Filename,
		Content:         content,
		FileType:        fileType,
		FileSize:        fileSize,
		Processed:       true,
		Summary:         summary,
		Keywords:        keywords,
		ConfidenceScore: confidence,
	}
	if segment != nil {
		doc.SegmentID = &segment.ID
	}

	docID, err := s.documents.CreateWithChunks(ctx, doc, chunks)
	if err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	s.logger.Info("document ingested",
		zap.Int64("document_id", docID),
		zap.Int("chunks", len(chunks)),
		zap.Float64("confidence", confidence),
	)

	return &domain.IngestResult{
		DocumentID: docID,
		SegmentID:  doc.SegmentID,
		Confidence: confidence,
		Summary:    summary,
	}, nil
}

// Get retrieves a single document
func (s *IngestService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List retrieves documents, optionally filtered by segment
func (s *IngestService) List(ctx context.Context, segmentID *int64) ([]*domain.Document, error) {
	return s.documents.List(ctx, segmentID)
}

// Delete removes a document and its chunks and recounts the owning
// segment's document count
func (s *IngestService) Delete(ctx context.Context, id int64) error {
	return s.documents.Delete(ctx, id)
}

// Segments lists the taxonomy
func (s *IngestService) Segments(ctx context.Context) ([]*domain.Segment, error) {
	return s.segments.List(ctx)
}
