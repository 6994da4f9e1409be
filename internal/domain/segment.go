package domain

import "time"

// DefaultSegmentName is the catch-all segment every corpus starts with.
// Documents land here when categorisation cannot pick a better fit.
const DefaultSegmentName = "General"

// Segment is a business category documents are filed under
type Segment struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Colour        string    `json:"colour"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
