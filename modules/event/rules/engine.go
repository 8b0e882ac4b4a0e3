package rules

import (
	"strings"
	"time"

	"dojo-events/modules/event/entity"
)

// Config is the booking policy. It is copied into the Engine and never
// mutated afterwards.
type Config struct {
	MaxFutureEvents    int
	MaxFourWeeks       int
	FourWeekWindow     time.Duration
	LongEventThreshold time.Duration
	OpenHour           int
	CloseHour          int
	Location           *time.Location
}

func DefaultConfig() Config {
	return Config{
		MaxFutureEvents:    10,
		MaxFourWeeks:       6,
		FourWeekWindow:     28 * 24 * time.Hour,
		LongEventThreshold: 24 * time.Hour,
		OpenHour:           9,
		CloseHour:          18,
		Location:           time.UTC,
	}
}

// Engine validates candidate events against the booking policy. It performs
// no I/O; callers hand it every event it needs to look at.
type Engine struct {
	cfg Config
	now func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LongEventThreshold <= 0 {
		cfg.LongEventThreshold = 24 * time.Hour
	}
	if cfg.FourWeekWindow <= 0 {
		cfg.FourWeekWindow = 28 * 24 * time.Hour
	}

	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Now() time.Time {
	return e.now()
}

// ValidateAndPrepare checks a new event submitted by organizer. organizerEvents
// are the organizer's existing events, dayEvents every event starting on the
// candidate's calendar day. The returned event is owned by organizer and pending.
func (e *Engine) ValidateAndPrepare(candidate entity.Event, organizer string, organizerEvents, dayEvents []entity.Event) (*entity.Event, error) {
	prepared := candidate
	prepared.ID = 0
	prepared.Member = NormalizeEmail(organizer)
	prepared.OtherMember = NormalizeEmail(candidate.OtherMember)
	prepared.Rooms = NormalizeRooms(candidate.Rooms)
	prepared.Status = entity.EventStatusPending
	prepared.OriginalStatus = ""
	prepared.OwnerSuspendedTime = nil

	if err := e.check(&prepared, 0, organizerEvents, dayEvents); err != nil {
		return nil, err
	}
	return &prepared, nil
}

// ValidateEdit applies candidate's editable fields onto existing and runs the
// same checks, ignoring existing itself in every count. An approved event whose
// time or rooms change goes back to pending.
func (e *Engine) ValidateEdit(existing, candidate entity.Event, organizerEvents, dayEvents []entity.Event) (*entity.Event, error) {
	prepared := existing
	prepared.Name = candidate.Name
	prepared.Type = candidate.Type
	prepared.Details = candidate.Details
	prepared.EstimatedSize = candidate.EstimatedSize
	prepared.StartTime = candidate.StartTime
	prepared.EndTime = candidate.EndTime
	prepared.Setup = candidate.Setup
	prepared.Teardown = candidate.Teardown
	prepared.Rooms = NormalizeRooms(candidate.Rooms)
	prepared.OtherMember = NormalizeEmail(candidate.OtherMember)

	if err := e.check(&prepared, existing.ID, organizerEvents, dayEvents); err != nil {
		return nil, err
	}

	if scheduleChanged(existing, prepared) && existing.Status == entity.EventStatusApproved {
		prepared.Status = entity.EventStatusPending
	}
	return &prepared, nil
}

func (e *Engine) check(ev *entity.Event, excludeID int64, organizerEvents, dayEvents []entity.Event) error {
	if !ev.EndTime.After(ev.StartTime) {
		return ErrTimeOrder
	}

	if len(ev.Rooms) == 0 {
		return ErrNoRoom
	}

	if ev.Duration() >= e.cfg.LongEventThreshold {
		if ev.OtherMember == "" || strings.EqualFold(ev.OtherMember, ev.Member) {
			return ErrSecondMemberRequired
		}
	}

	now := e.now()

	if FutureActiveCount(organizerEvents, ev.Member, now, excludeID)+1 > e.cfg.MaxFutureEvents {
		return futureLimitError(e.cfg.MaxFutureEvents)
	}

	windowEnd := now.Add(e.cfg.FourWeekWindow)
	if inWindow(ev.StartTime, now, windowEnd) {
		if WindowActiveCount(organizerEvents, ev.Member, now, windowEnd, excludeID)+1 > e.cfg.MaxFourWeeks {
			return fourWeekLimitError(e.cfg.MaxFourWeeks)
		}
	}

	if e.restrictedStart(ev.StartTime) && e.dayTaken(ev.StartTime, dayEvents, excludeID) {
		return ErrOnePerDay
	}

	return nil
}

// restrictedStart reports whether t falls on a weekday within operating hours.
func (e *Engine) restrictedStart(t time.Time) bool {
	local := t.In(e.cfg.Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return e.WithinOperatingHours(local)
}

// WithinOperatingHours reports whether t starts in [OpenHour, CloseHour) in the
// facility time zone.
func (e *Engine) WithinOperatingHours(t time.Time) bool {
	h := t.In(e.cfg.Location).Hour()
	return h >= e.cfg.OpenHour && h < e.cfg.CloseHour
}

func (e *Engine) dayTaken(start time.Time, dayEvents []entity.Event, excludeID int64) bool {
	y, m, d := start.In(e.cfg.Location).Date()
	for _, other := range dayEvents {
		if excludeID != 0 && other.ID == excludeID {
			continue
		}
		if other.Status != entity.EventStatusPending && other.Status != entity.EventStatusApproved {
			continue
		}
		oy, om, od := other.StartTime.In(e.cfg.Location).Date()
		if oy == y && om == m && od == d && e.WithinOperatingHours(other.StartTime) {
			return true
		}
	}
	return false
}

// DayBounds returns the start of t's calendar day in the facility time zone and
// the start of the next day.
func (e *Engine) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(e.cfg.Location)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, e.cfg.Location)
	return start, start.AddDate(0, 0, 1)
}

// FutureActiveCount counts member's active events starting after now.
func FutureActiveCount(events []entity.Event, member string, now time.Time, excludeID int64) int {
	n := 0
	for _, ev := range events {
		if !countable(ev, member, excludeID) {
			continue
		}
		if ev.StartTime.After(now) {
			n++
		}
	}
	return n
}

// WindowActiveCount counts member's active events starting in [from, to].
func WindowActiveCount(events []entity.Event, member string, from, to time.Time, excludeID int64) int {
	n := 0
	for _, ev := range events {
		if !countable(ev, member, excludeID) {
			continue
		}
		if inWindow(ev.StartTime, from, to) {
			n++
		}
	}
	return n
}

func countable(ev entity.Event, member string, excludeID int64) bool {
	if excludeID != 0 && ev.ID == excludeID {
		return false
	}
	if !strings.EqualFold(ev.Member, member) {
		return false
	}
	return ev.Status.Active()
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func scheduleChanged(before, after entity.Event) bool {
	if !before.StartTime.Equal(after.StartTime) || !before.EndTime.Equal(after.EndTime) {
		return true
	}
	if len(before.Rooms) != len(after.Rooms) {
		return true
	}
	for i := range before.Rooms {
		if before.Rooms[i] != after.Rooms[i] {
			return true
		}
	}
	return false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
