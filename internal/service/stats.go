package service

import (
	"context"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/repository"
)

// StatsService aggregates corpus-wide counters
type StatsService struct {
	documents *repository.DocumentRepository
	segments  *repository.SegmentRepository
	sessions  *repository.SessionRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	documents *repository.DocumentRepository,
	segments *repository.SegmentRepository,
	sessions *repository.SessionRepository,
) *StatsService {
	return &StatsService{documents: documents, segments: segments, sessions: sessions}
}

// Stats returns totals across the corpus
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}
	var err error

	if stats.TotalDocuments, err = s.documents.CountDocuments(ctx); err != nil {
		return nil, err
	}
	if stats.TotalChunks, err = s.documents.CountChunks(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSegments, err = s.segments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSessions, err = s.sessions.CountSessions(ctx); err != nil {
		return nil, err
	}
	if stats.TotalChats, err = s.sessions.CountChats(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
