package repository

import (
	"context"
	"database/sql"

	"github.com/bizkb/bizkb/internal/domain"
)

// SegmentRepository handles segment persistence
type SegmentRepository struct {
	db *DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// List retrieves all segments ordered by name
func (r *SegmentRepository) List(ctx context.Context) ([]*domain.Segment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, colour, document_count, created_at, updated_at
		FROM segments ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*domain.Segment
	for rows.Next() {
		segment := &domain.Segment{}
		var description sql.NullString

		if err := rows.Scan(&segment.ID, &segment.Name, &description, &segment.Colour,
			&segment.DocumentCount, &segment.CreatedAt, &segment.UpdatedAt); err != nil {
			return nil, err
		}

		segment.Description = description.String
		segments = append(segments, segment)
	}

	return segments, rows.Err()
}

// Get retrieves a segment by ID
func (r *SegmentRepository) Get(ctx context.Context, id int64) (*domain.Segment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, colour, document_count, created_at, updated_at
		FROM segments WHERE id = ?
	`, id))
}

// GetByName retrieves a segment by its unique name, case-insensitively
func (r *SegmentRepository) GetByName(ctx context.Context, name string) (*domain.Segment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, colour, document_count, created_at, updated_at
		FROM segments WHERE name = ? COLLATE NOCASE
	`, name))
}

func (r *SegmentRepository) scanOne(row *sql.Row) (*domain.Segment, error) {
	segment := &domain.Segment{}
	var description sql.NullString

	err := row.Scan(&segment.ID, &segment.Name, &description, &segment.Colour,
		&segment.DocumentCount, &segment.CreatedAt, &segment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	segment.Description = description.String
	return segment, nil
}

// Recount recomputes a segment's document_count from the documents table.
// Idempotent and safe to race: last writer wins and is still correct.
func (r *SegmentRepository) Recount(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, recountSQL, id, id)
	return err
}

// RecountAll repairs document_count for every segment
func (r *SegmentRepository) RecountAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE segments
		SET document_count = (SELECT COUNT(*) FROM documents WHERE segment_id = segments.id),
		    updated_at = CURRENT_TIMESTAMP
	`)
	return err
}

// Count returns the number of segments
func (r *SegmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM segments`).Scan(&count)
	return count, err
}

const recountSQL = `
	UPDATE segments
	SET document_count = (SELECT COUNT(*) FROM documents WHERE segment_id = ?),
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
