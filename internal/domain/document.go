package domain

import "time"

// Document represents an ingested business document
type Document struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Filename        string    `json:"filename,omitempty"`
	Content         string    `json:"content,omitempty"`
	FileType        string    `json:"file_type,omitempty"`
	FileSize        int64     `json:"file_size"`
	SegmentID       *int64    `json:"segment_id"` // nil = uncategorised
	SegmentName     string    `json:"segment_name,omitempty"`
	SegmentColour   string    `json:"segment_colour,omitempty"`
	UploadDate      time.Time `json:"upload_date"`
	Processed       bool      `json:"processed"`
	Summary         string    `json:"summary,omitempty"`
	Keywords        string    `json:"keywords,omitempty"` // comma-joined terms
	ConfidenceScore float64   `json:"confidence_score"`
}

// Chunk is a bounded-length slice of a document's text, the unit of retrieval.
// Indices are zero-based and contiguous within a document.
type Chunk struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Text       string    `json:"chunk_text"`
	Index      int       `json:"chunk_index"`
	Preview    string    `json:"preview,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchResult is one retrieval hit: a chunk together with the document
// fields a generation prompt needs.
type SearchResult struct {
	ChunkText   string `json:"chunk_text"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	SegmentName string `json:"segment_name"`
}

// IngestResult is what an upload returns to the caller
type IngestResult struct {
	DocumentID int64   `json:"document_id"`
	SegmentID  *int64  `json:"segment_id"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}
