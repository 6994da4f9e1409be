package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db}, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			colour TEXT DEFAULT '#3B82F6',
			document_count INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			filename TEXT,
			content TEXT NOT NULL,
			file_type TEXT,
			file_size INTEGER,
			segment_id INTEGER,
			upload_date DATETIME DEFAULT CURRENT_TIMESTAMP,
			processed BOOLEAN DEFAULT FALSE,
			summary TEXT,
			keywords TEXT,
			confidence_score REAL DEFAULT 0,
			FOREIGN KEY (segment_id) REFERENCES segments(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge_chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL,
			chunk_text TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			preview TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE,
			UNIQUE (document_id, chunk_index)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			sources TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_segment ON documents(segment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_processed ON documents(processed)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON knowledge_chunks(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON chat_messages(session_id)`,
		`INSERT OR IGNORE INTO segments (name, description, colour) VALUES
			('General', 'General business information and documents', '#373F51'),
			('Accounting', 'Financial records, invoices, and accounting documents', '#5CA4A9'),
			('Finance', 'Financial planning, budgets, and investment information', '#EE716A'),
			('Marketing', 'Marketing materials, campaigns, and customer information', '#9C0D38'),
			('Operations', 'Operational procedures, workflows, and processes', '#9BC1BC'),
			('Human Resources', 'HR policies, employee information, and recruitment', '#F6B0A4'),
			('Legal', 'Contracts, legal documents, and compliance information', '#373F51'),
			('Product', 'Product specifications, development, and documentation', '#EE716A'),
			('Customer Service', 'Customer support, feedback, and service procedures', '#D1E3DD')`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}
