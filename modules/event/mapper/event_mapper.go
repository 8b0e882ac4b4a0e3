package mapper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dojo-events/modules/event/dto"
	"dojo-events/modules/event/entity"
	logentity "dojo-events/modules/eventlog/entity"
)

const formDateLayout = "1/2/2006"

// ToEntity parses req into an unvalidated event. Split form dates are read in
// loc.
func ToEntity(req *dto.EventRequest, loc *time.Location) (entity.Event, error) {
	start, err := parseTime(req.StartTime, req.StartDate, req.StartTimeHour, req.StartTimeMinute, req.StartTimeAmPm, loc)
	if err != nil {
		return entity.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTime(req.EndTime, req.EndDate, req.EndTimeHour, req.EndTimeMinute, req.EndTimeAmPm, loc)
	if err != nil {
		return entity.Event{}, fmt.Errorf("end: %w", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return entity.Event{}, fmt.Errorf("name is required")
	}
	if req.EstimatedSize < 0 || req.Setup < 0 || req.Teardown < 0 {
		return entity.Event{}, fmt.Errorf("size, setup and teardown must not be negative")
	}

	return entity.Event{
		Name:          strings.TrimSpace(req.Name),
		Type:          strings.TrimSpace(req.Type),
		Details:       req.Details,
		EstimatedSize: req.EstimatedSize,
		StartTime:     start,
		EndTime:       end,
		Setup:         req.Setup,
		Teardown:      req.Teardown,
		Rooms:         req.Rooms,
		OtherMember:   req.OtherMember,
	}, nil
}

func parseTime(rfc, date, hour, minute, ampm string, loc *time.Location) (time.Time, error) {
	if rfc != "" {
		t, err := time.Parse(time.RFC3339, rfc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q", rfc)
		}
		return t.UTC(), nil
	}

	day, err := time.ParseInLocation(formDateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hour))
	if err != nil || h < 1 || h > 12 {
		return time.Time{}, fmt.Errorf("invalid hour %q", hour)
	}
	m := 0
	if strings.TrimSpace(minute) != "" {
		m, err = strconv.Atoi(strings.TrimSpace(minute))
		if err != nil || m < 0 || m > 59 {
			return time.Time{}, fmt.Errorf("invalid minute %q", minute)
		}
	}

	switch strings.ToUpper(strings.TrimSpace(ampm)) {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return time.Time{}, fmt.Errorf("invalid am/pm %q", ampm)
	}

	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc).UTC(), nil
}

// ParseEventIDs decodes the bulk "events" field.
func ParseEventIDs(raw string) ([]int64, error) {
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("events must be a JSON array of ids")
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no events given")
	}

	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func ToResponse(ev *entity.Event) dto.EventResponse {
	rooms := []string(ev.Rooms)
	if rooms == nil {
		rooms = []string{}
	}
	return dto.EventResponse{
		ID:                 ev.ID,
		Name:               ev.Name,
		Type:               ev.Type,
		Details:            ev.Details,
		EstimatedSize:      ev.EstimatedSize,
		StartTime:          ev.StartTime,
		EndTime:            ev.EndTime,
		Setup:              ev.Setup,
		Teardown:           ev.Teardown,
		Rooms:              rooms,
		Member:             ev.Member,
		OtherMember:        ev.OtherMember,
		Status:             string(ev.Status),
		OwnerSuspendedTime: ev.OwnerSuspendedTime,
		CreatedAt:          ev.CreatedAt,
		UpdatedAt:          ev.UpdatedAt,
	}
}

func ToListResponse(events []entity.Event) dto.EventListResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToResponse(&events[i]))
	}
	return dto.EventListResponse{Events: out, Total: len(out)}
}

func ToLogResponses(entries []logentity.LogEntry) []dto.LogEntryResponse {
	out := make([]dto.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LogEntryResponse{
			ID:          e.ID.String(),
			User:        e.User,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
