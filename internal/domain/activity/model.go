package activity

import "time"

// ActivityType represents the kind of catalogue change
type ActivityType string

const (
	TypeCreated       ActivityType = "created"
	TypeUpdated       ActivityType = "updated"
	TypeDeleted       ActivityType = "deleted"
	TypeCredited      ActivityType = "credited"
	TypeUncredited    ActivityType = "uncredited"
	TypeReadingLogged ActivityType = "reading_logged"
	TypeResorted      ActivityType = "resorted"
)

// ActivityEntry represents a change in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	SubjectType  string       `json:"subject_type"`
	SubjectID    string       `json:"subject_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
