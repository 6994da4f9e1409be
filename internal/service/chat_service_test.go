package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bizkb/bizkb/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatEmptyCorpusDegraded(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&stubGenerator{err: errors.New("generation down")})
	ctx := context.Background()

	resp, err := svc.Chat(ctx, &domain.ChatRequest{Message: "what is our refund policy?"})
	require.NoError(t, err)

	assert.Equal(t, noInformationAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.NotEmpty(t, resp.SessionID)

	// The failed turn is still persisted in full.
	messages, err := svc.History(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "what is our refund policy?", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, noInformationAnswer, messages[1].Content)
}

func TestChatDegradedWithResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ingest := env.ingestService(&stubGenerator{replies: []string{"Finance", "Quarterly revenue summary."}})
	_, err := ingest.Ingest(ctx, UploadInput{
		Title:   "Q3 Revenue Report",
		Content: "Quarterly revenue grew twelve percent driven by subscription renewals.",
	})
	require.NoError(t, err)

	svc := env.chatService(&stubGenerator{err: errors.New("generation down")})
	resp, err := svc.Chat(ctx, &domain.ChatRequest{Message: "revenue"})
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, degradedNotice)
	assert.Contains(t, resp.Answer, "Q3 Revenue Report")
	assert.Contains(t, resp.Answer, "Finance")
	assert.Contains(t, resp.Answer, "Quarterly revenue summary.")
	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, "Q3 Revenue Report", resp.Sources[0].Title)
	assert.Equal(t, "Finance", resp.Sources[0].Segment)
}

func TestChatFallbackDeduplicatesAndCaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	titles := []string{"Travel Policy", "Expense Policy", "Remote Work Policy", "Security Policy"}
	for _, title := range titles {
		ingest := env.ingestService(&stubGenerator{replies: []string{"Operations", "Covers day to day procedure."}})
		// Two sentences long enough to span two chunks, so retrieval
		// returns multiple hits per document.
		long := strings.Repeat("The policy covers procedure detail. ", 30)
		_, err := ingest.Ingest(ctx, UploadInput{Title: title, Content: long})
		require.NoError(t, err)
	}

	svc := env.chatService(&stubGenerator{err: errors.New("generation down")})
	resp, err := svc.Chat(ctx, &domain.ChatRequest{Message: "policy"})
	require.NoError(t, err)

	listed := strings.Count(resp.Answer, "\n\n- ")
	assert.Equal(t, maxFallbackDocuments, listed)
	for _, title := range titles {
		assert.LessOrEqual(t, strings.Count(resp.Answer, title), 1)
	}
}

func TestChatSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ingest := env.ingestService(&stubGenerator{replies: []string{"Human Resources", "Describes the vacation policy."}})
	_, err := ingest.Ingest(ctx, UploadInput{
		Title:   "Vacation Policy",
		Content: "Employees accrue vacation at two days per month of service.",
	})
	require.NoError(t, err)

	gen := &stubGenerator{replies: []string{"Employees accrue two vacation days per month (Vacation Policy)."}}
	svc := env.chatService(gen)

	resp, err := svc.Chat(ctx, &domain.ChatRequest{Message: "vacation"})
	require.NoError(t, err)

	assert.Equal(t, "Employees accrue two vacation days per month (Vacation Policy).", resp.Answer)
	_, err = uuid.Parse(resp.SessionID)
	assert.NoError(t, err, "session token should be a server-minted uuid")
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Vacation Policy", resp.Sources[0].Title)
	assert.Equal(t, "Human Resources", resp.Sources[0].Segment)

	// The generator sees the retrieved chunks and the user question.
	require.Len(t, gen.calls, 1)
	require.Len(t, gen.calls[0], 2)
	assert.Equal(t, "system", gen.calls[0][0].Role)
	assert.Contains(t, gen.calls[0][0].Content, "[Human Resources] Vacation Policy:")
	assert.Contains(t, gen.calls[0][0].Content, "Employees accrue vacation")
	assert.Equal(t, "user", gen.calls[0][1].Role)
}

func TestChatSessionContinuity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	gen := &stubGenerator{replies: []string{"First answer.", "Second answer."}}
	svc := env.chatService(gen)

	first, err := svc.Chat(ctx, &domain.ChatRequest{Message: "first question"})
	require.NoError(t, err)
	second, err := svc.Chat(ctx, &domain.ChatRequest{SessionID: first.SessionID, Message: "second question"})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	messages, err := svc.History(ctx, first.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, []string{"first question", "First answer.", "second question", "Second answer."},
		[]string{messages[0].Content, messages[1].Content, messages[2].Content, messages[3].Content})
	for _, m := range messages {
		assert.Equal(t, first.SessionID, m.SessionID)
	}
}

func TestChatHistorySources(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ingest := env.ingestService(&stubGenerator{replies: []string{"Legal", "Master service agreement terms."}})
	_, err := ingest.Ingest(ctx, UploadInput{
		Title:   "MSA Terms",
		Content: "The agreement renews annually and either party may terminate with notice.",
	})
	require.NoError(t, err)

	svc := env.chatService(&stubGenerator{replies: []string{"It renews annually."}})
	resp, err := svc.Chat(ctx, &domain.ChatRequest{Message: "agreement renews"})
	require.NoError(t, err)

	messages, err := svc.History(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Empty(t, messages[0].Sources)
	require.Len(t, messages[1].Sources, 1)
	assert.Equal(t, "MSA Terms", messages[1].Sources[0].Title)
	assert.Equal(t, "Legal", messages[1].Sources[0].Segment)
}

func TestChatUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&stubGenerator{replies: []string{"answer"}})

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: uuid.New().String(),
		Message:   "hello",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatEmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&stubGenerator{replies: []string{"answer"}})

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestHistoryUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.chatService(&stubGenerator{})

	_, err := svc.History(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.History(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
