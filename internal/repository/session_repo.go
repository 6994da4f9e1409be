package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bizkb/bizkb/internal/domain"
)

// SessionRepository handles chat session and message persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Upsert creates the session if absent, otherwise bumps last_activity
func (r *SessionRepository) Upsert(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (session_id, created_at, last_activity)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET last_activity = excluded.last_activity
	`, sessionID, time.Now(), time.Now())
	return err
}

// Exists reports whether a session token is known
func (r *SessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM chat_sessions WHERE session_id = ?`, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateMessage appends a message to a session. Sources are serialized to
// JSON; a user message carries none and stores NULL.
func (r *SessionRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	message.CreatedAt = time.Now()

	var sourcesJSON any
	if message.Sources != nil {
		data, err := json.Marshal(message.Sources)
		if err != nil {
			return err
		}
		sourcesJSON = string(data)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (session_id, role, content, sources, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, message.SessionID, message.Role, message.Content, sourcesJSON, message.CreatedAt)
	if err != nil {
		return err
	}

	message.ID, err = result.LastInsertId()
	return err
}

// Messages retrieves all messages for a session, oldest first, with each
// message's source list deserialized
func (r *SessionRepository) Messages(ctx context.Context, sessionID string) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, sources, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		var sourcesJSON sql.NullString

		if err := rows.Scan(&message.ID, &message.SessionID, &message.Role,
			&message.Content, &sourcesJSON, &message.CreatedAt); err != nil {
			return nil, err
		}

		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &message.Sources); err != nil {
				return nil, err
			}
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// CountSessions returns the total number of chat sessions
func (r *SessionRepository) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}

// CountChats returns the total number of user messages (chats)
func (r *SessionRepository) CountChats(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages WHERE role = 'user'`).Scan(&count)
	return count, err
}
