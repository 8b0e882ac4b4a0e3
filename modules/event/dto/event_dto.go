package dto

import "time"

// ===================== Request DTOs =====================

// EventRequest is the body of POST /new and POST /edit/:id. Browsers post the
// split date fields; JSON clients may send StartTime/EndTime in RFC 3339.
type EventRequest struct {
	Name          string   `json:"name" form:"name"`
	Type          string   `json:"type" form:"type"`
	Details       string   `json:"details" form:"details"`
	EstimatedSize int      `json:"estimated_size" form:"estimated_size"`
	Setup         int      `json:"setup" form:"setup"`
	Teardown      int      `json:"teardown" form:"teardown"`
	Rooms         []string `json:"rooms" form:"rooms"`
	OtherMember   string   `json:"other_member" form:"other_member"`

	StartDate       string `json:"start_date" form:"start_date"` // M/D/YYYY
	StartTimeHour   string `json:"start_time_hour" form:"start_time_hour"`
	StartTimeMinute string `json:"start_time_minute" form:"start_time_minute"`
	StartTimeAmPm   string `json:"start_time_ampm" form:"start_time_ampm"`
	EndDate         string `json:"end_date" form:"end_date"`
	EndTimeHour     string `json:"end_time_hour" form:"end_time_hour"`
	EndTimeMinute   string `json:"end_time_minute" form:"end_time_minute"`
	EndTimeAmPm     string `json:"end_time_ampm" form:"end_time_ampm"`

	StartTime string `json:"start_time" form:"start_time"` // RFC3339
	EndTime   string `json:"end_time" form:"end_time"`     // RFC3339
}

// BulkActionRequest carries event ids as a JSON array, e.g. "[1,2,3]".
type BulkActionRequest struct {
	Action string `json:"action" form:"action"`
	Events string `json:"events" form:"events"`
}

type OwnerRequest struct {
	Member string `json:"member" form:"member"`
}

// ===================== Response DTOs =====================

type EventResponse struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Details            string     `json:"details"`
	EstimatedSize      int        `json:"estimated_size"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Setup              int        `json:"setup"`
	Teardown           int        `json:"teardown"`
	Rooms              []string   `json:"rooms"`
	Member             string     `json:"member"`
	OtherMember        string     `json:"other_member,omitempty"`
	Status             string     `json:"status"`
	OwnerSuspendedTime *time.Time `json:"owner_suspended_time,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

// NewEventFormResponse describes the event form.
type NewEventFormResponse struct {
	Title      string   `json:"title"`
	Rooms      []string `json:"rooms"`
	EventTypes []string `json:"event_types"`
	Timezone   string   `json:"timezone"`
}

type BulkActionResponse struct {
	Action  string  `json:"action"`
	Status  string  `json:"status"`
	Updated []int64 `json:"updated"`
}

type ExpireResponse struct {
	Expired int `json:"expired"`
}

type OwnerResponse struct {
	Member  string  `json:"member"`
	Updated []int64 `json:"updated"`
}

// LogEntryResponse is one audit log line.
type LogEntryResponse struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
