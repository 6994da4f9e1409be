package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/bizkb/bizkb/internal/llm"
	"github.com/bizkb/bizkb/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubGenerator plays back scripted replies in order, or fails every call
// when err is set.
type stubGenerator struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (g *stubGenerator) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	g.calls = append(g.calls, messages)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

type testEnv struct {
	db        *repository.DB
	documents *repository.DocumentRepository
	segments  *repository.SegmentRepository
	sessions  *repository.SessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		db:        db,
		documents: repository.NewDocumentRepository(db),
		segments:  repository.NewSegmentRepository(db),
		sessions:  repository.NewSessionRepository(db),
	}
}

func (e *testEnv) ingestService(gen llm.Generator) *IngestService {
	logger := zap.NewNop()
	return NewIngestService(e.documents, e.segments, NewClassifier(gen, logger), 0, logger)
}

func (e *testEnv) chatService(gen llm.Generator) *ChatService {
	return NewChatService(e.sessions, NewKeywordSearch(e.documents), gen, 0, zap.NewNop())
}

func (e *testEnv) segmentByName(t *testing.T, name string) *domain.Segment {
	t.Helper()
	segment, err := e.segments.GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, segment, "seed segment %q missing", name)
	return segment
}
