package service

import (
	"context"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/repository"
)

// DefaultSearchLimit caps retrieval results per query
const DefaultSearchLimit = 10

// RetrievalEngine finds chunks relevant to a query. The baseline is a
// recall-biased substring matcher; a ranked implementation can be swapped
// in without touching the chat orchestrator.
type RetrievalEngine interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

type keywordSearch struct {
	documents *repository.DocumentRepository
}

// NewKeywordSearch creates the substring-matching retrieval engine: a
// case-insensitive match over chunk text, title, summary, and keywords,
// most recent documents first.
func NewKeywordSearch(documents *repository.DocumentRepository) RetrievalEngine {
	return &keywordSearch{documents: documents}
}

func (s *keywordSearch) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.documents.SearchChunks(ctx, query, limit)
}
