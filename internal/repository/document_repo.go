package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bizkb/bizkb/internal/domain"
)

const previewLength = 200

// DocumentRepository handles document and chunk persistence
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateWithChunks inserts a document, its chunks with contiguous indices,
// and recounts the target segment's document_count, all in one transaction.
// The recount is the last write so the cache self-heals on every ingestion.
func (r *DocumentRepository) CreateWithChunks(ctx context.Context, doc *domain.Document, chunks []string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	doc.UploadDate = time.Now()

	var segmentID any
	if doc.SegmentID != nil {
		segmentID = *doc.SegmentID
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO documents (title, filename, content, file_type, file_size, segment_id,
			upload_date, processed, summary, keywords, confidence_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.Title, nullString(doc.Filename), doc.Content, doc.FileType, doc.FileSize,
		segmentID, doc.UploadDate, doc.Processed, doc.Summary, doc.Keywords, doc.ConfidenceScore)
	if err != nil {
		return 0, err
	}

	docID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, chunk := range chunks {
		preview := chunk
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO knowledge_chunks (document_id, chunk_text, chunk_index, preview)
			VALUES (?, ?, ?, ?)
		`, docID, chunk, i, preview); err != nil {
			return 0, err
		}
	}

	if doc.SegmentID != nil {
		if _, err := tx.ExecContext(ctx, recountSQL, *doc.SegmentID, *doc.SegmentID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	doc.ID = docID
	return docID, nil
}

// Get retrieves a document by ID with its segment name and colour joined in
func (r *DocumentRepository) Get(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx, selectDocumentSQL+` WHERE d.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List retrieves documents most recent first, optionally filtered by segment
func (r *DocumentRepository) List(ctx context.Context, segmentID *int64) ([]*domain.Document, error) {
	query := selectDocumentSQL
	args := []any{}
	if segmentID != nil {
		query += ` WHERE d.segment_id = ?`
		args = append(args, *segmentID)
	}
	query += ` ORDER BY d.upload_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, rows.Err()
}

// Delete removes a document, its chunks (cascade), and recounts the owning
// segment's document_count in the same transaction. Returns ErrNotFound if
// the document does not exist.
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var segmentID sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT segment_id FROM documents WHERE id = ?`, id).Scan(&segmentID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return err
	}

	if segmentID.Valid {
		if _, err := tx.ExecContext(ctx, recountSQL, segmentID.Int64, segmentID.Int64); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Chunks retrieves a document's chunks in index order
func (r *DocumentRepository) Chunks(ctx context.Context, documentID int64) ([]*domain.Chunk, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_text, chunk_index, preview, created_at
		FROM knowledge_chunks WHERE document_id = ?
		ORDER BY chunk_index ASC
	`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		chunk := &domain.Chunk{}
		var preview sql.NullString

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text,
			&chunk.Index, &preview, &chunk.CreatedAt); err != nil {
			return nil, err
		}

		chunk.Preview = preview.String
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// SearchChunks matches the query as a case-insensitive substring against
// chunk text, document title, summary, and keywords. Results come back most
// recently uploaded first, then by chunk index, capped at limit.
func (r *DocumentRepository) SearchChunks(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	pattern := "%" + query + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT kc.chunk_text, d.title, COALESCE(d.summary, ''), COALESCE(s.name, '')
		FROM knowledge_chunks kc
		JOIN documents d ON kc.document_id = d.id
		LEFT JOIN segments s ON d.segment_id = s.id
		WHERE kc.chunk_text LIKE ? OR d.title LIKE ? OR d.summary LIKE ? OR d.keywords LIKE ?
		ORDER BY d.upload_date DESC, kc.chunk_index ASC
		LIMIT ?
	`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var result domain.SearchResult
		if err := rows.Scan(&result.ChunkText, &result.Title, &result.Summary, &result.SegmentName); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// CountDocuments returns the total number of documents
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountChunks returns the total number of knowledge chunks
func (r *DocumentRepository) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM knowledge_chunks`).Scan(&count)
	return count, err
}

const selectDocumentSQL = `
	SELECT d.id, d.title, d.filename, d.content, d.file_type, d.file_size, d.segment_id,
		d.upload_date, d.processed, d.summary, d.keywords, d.confidence_score,
		COALESCE(s.name, ''), COALESCE(s.colour, '')
	FROM documents d
	LEFT JOIN segments s ON d.segment_id = s.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	doc := &domain.Document{}
	var filename, fileType, summary, keywords sql.NullString
	var segmentID sql.NullInt64

	if err := row.Scan(&doc.ID, &doc.Title, &filename, &doc.Content, &fileType,
		&doc.FileSize, &segmentID, &doc.UploadDate, &doc.Processed,
		&summary, &keywords, &doc.ConfidenceScore,
		&doc.SegmentName, &doc.SegmentColour); err != nil {
		return nil, err
	}

	doc.Filename = filename.String
	doc.FileType = fileType.String
	doc.Summary = summary.String
	doc.Keywords = keywords.String
	if segmentID.Valid {
		doc.SegmentID = &segmentID.Int64
	}

	return doc, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
