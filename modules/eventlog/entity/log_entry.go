package entity

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is an immutable audit record about one event.
type LogEntry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EventID     int64     `db:"event_id" json:"event_id"`
	User        string    `db:"user_email" json:"user"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func NewLogEntry(eventID int64, user, description string) LogEntry {
	return LogEntry{
		ID:          uuid.New(),
		EventID:     eventID,
		User:        user,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
