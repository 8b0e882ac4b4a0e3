package entity

import (
	"time"

	"github.com/lib/pq"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusPending     EventStatus = "pending"
	EventStatusApproved    EventStatus = "approved"
	EventStatusNotApproved EventStatus = "not_approved"
	EventStatusOnHold      EventStatus = "onhold"
	EventStatusExpired     EventStatus = "expired"
	EventStatusDeleted     EventStatus = "deleted"
)

// Active reports whether the status counts toward member quotas.
func (s EventStatus) Active() bool {
	switch s {
	case EventStatusPending, EventStatusApproved, EventStatusOnHold:
		return true
	}
	return false
}

// Event is a room booking request (events table).
type Event struct {
	ID                 int64          `db:"id" json:"id"`
	Name               string         `db:"name" json:"name"`
	Type               string         `db:"type" json:"type"`
	Details            string         `db:"details" json:"details"`
	EstimatedSize      int            `db:"estimated_size" json:"estimated_size"`
	StartTime          time.Time      `db:"start_time" json:"start_time"`
	EndTime            time.Time      `db:"end_time" json:"end_time"`
	Setup              int            `db:"setup" json:"setup"`
	Teardown           int            `db:"teardown" json:"teardown"`
	Rooms              pq.StringArray `db:"rooms" json:"rooms"`
	Member             string         `db:"member" json:"member"`
	OtherMember        string         `db:"other_member" json:"other_member"`
	Status             EventStatus    `db:"status" json:"status"`
	OriginalStatus     EventStatus    `db:"original_status" json:"original_status"`
	OwnerSuspendedTime *time.Time     `db:"owner_suspended_time" json:"owner_suspended_time,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// Duration is end minus start.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}
