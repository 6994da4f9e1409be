package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/llm"
	"github.com/bizkb/bizkb/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// noInformationAnswer is returned when retrieval finds nothing and the
	// generation service is unavailable
	noInformationAnswer = "I don't have any information about that in the uploaded documents, and the answer generation service is currently unavailable. Please try again later or upload relevant documents first."

	degradedNotice = "The answer generation service is currently unavailable, but these documents matched your question:"

	// maxFallbackDocuments caps the degraded-mode document listing
	maxFallbackDocuments = 3

	fallbackExcerptLength = 200
)

// ChatService orchestrates one chat turn: session upkeep, retrieval,
// prompt assembly, generation, and persistence of the exchange. Generation
// failures degrade to a retrieval-based answer and never fail the turn.
type ChatService struct {
	sessions    *repository.SessionRepository
	retrieval   RetrievalEngine
	generator   llm.Generator
	searchLimit int
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	sessions *repository.SessionRepository,
	retrieval RetrievalEngine,
	generator llm.Generator,
	searchLimit int,
	logger *zap.Logger,
) *ChatService {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &ChatService{
		sessions:    sessions,
		retrieval:   retrieval,
		generator:   generator,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// Chat handles one turn. An empty session id mints a new server-issued
// token, returned in the response; a supplied token must reference an
// existing session.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	} else {
		known, err := s.sessions.Exists(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
		}
	}
	if err := s.sessions.Upsert(ctx, sessionID); err != nil {
		return nil, err
	}

	results, err := s.retrieval.Search(ctx, req.Message, s.searchLimit)
	if err != nil {
		return nil, err
	}

	answer := s.answer(ctx, req.Message, results)

	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, domain.Source{Title: r.Title, Segment: r.SegmentName})
	}

	userMsg := &domain.Message{SessionID: sessionID, Role: "user", Content: req.Message}
	if err := s.sessions.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	assistantMsg := &domain.Message{SessionID: sessionID, Role: "assistant", Content: answer, Sources: sources}
	if err := s.sessions.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		SessionID: sessionID,
		Answer:    answer,
		Sources:   sources,
	}, nil
}

// History replays a session's messages oldest first
func (s *ChatService) History(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}
	known, err := s.sessions.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return s.sessions.Messages(ctx, sessionID)
}

func (s *ChatService) answer(ctx context.Context, message string, results []domain.SearchResult) string {
	answer, err := s.generator.Generate(ctx, []llm.Message{
		{Role: "system", Content: contextPrompt(results)},
		{Role: "user", Content: message},
	})
	if err == nil {
		return answer
	}

	s.logger.Warn("chat generation failed, answering from retrieval", zap.Error(err))
	if len(results) == 0 {
		return noInformationAnswer
	}
	return fallbackAnswer(results)
}

func contextPrompt(results []domain.SearchResult) string {
	var context strings.Builder
	for i, r := range results {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[%s] %s: %s", r.SegmentName, r.Title, r.ChunkText)
	}

	return fmt.Sprintf(`You are a helpful business assistant. Answer questions based ONLY on the provided company documentation. If the information is not in the documentation, clearly state that you don't have that information in the company documents.

Company Documentation:
%s

Always cite which documents or sections you're referencing in your response.`, context.String())
}

// fallbackAnswer lists the matched documents when generation is down,
// deduplicated by title in retrieval order.
func fallbackAnswer(results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString(degradedNotice)

	seen := make(map[string]bool)
	listed := 0
	for _, r := range results {
		if seen[r.Title] {
			continue
		}
		seen[r.Title] = true

		description := r.Summary
		if description == "" {
			description = excerpt(r.ChunkText, fallbackExcerptLength)
		}
		fmt.Fprintf(&b, "\n\n- %s (%s): %s", r.Title, r.SegmentName, description)

		listed++
		if listed == maxFallbackDocuments {
			break
		}
	}
	return b.String()
}
