package domain

import "time"

// Session represents a chat session. Tokens are minted server-side on first
// contact and required on subsequent turns.
type Session struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Message represents a chat message
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Source is a citation attached to an assistant message
type Source struct {
	Title   string `json:"title"`
	Segment string `json:"segment"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the response from a chat turn
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
}

// Stats represents corpus-wide counters
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	TotalChunks    int `json:"total_chunks"`
	TotalSegments  int `json:"total_segments"`
	TotalSessions  int `json:"total_sessions"`
	TotalChats     int `json:"total_chats"`
}
