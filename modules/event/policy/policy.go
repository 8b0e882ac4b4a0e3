package policy

import (
	"errors"
	"strings"

	"dojo-events/modules/event/entity"
)

// Action is a bulk status change a caller can request.
type Action string

const (
	ActionApprove     Action = "approve"
	ActionNotApproved Action = "notapproved"
	ActionOnHold      Action = "onhold"
	ActionDelete      Action = "delete"
)

// Actions lists every action in canonical order.
var Actions = []Action{ActionApprove, ActionNotApproved, ActionOnHold, ActionDelete}

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotAuthorized = errors.New("you are not allowed to perform this action on every selected event")
	ErrNoEvents      = errors.New("no events selected")
)

// Caller is the identity behind a request.
type Caller struct {
	Email   string
	IsAdmin bool
}

// Allowed partitions Actions for a set of events.
type Allowed struct {
	Valid   []Action `json:"valid"`
	Invalid []Action `json:"invalid"`
}

func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", ErrUnknownAction
}

// TargetStatus is the status an action moves an event to.
func (a Action) TargetStatus() entity.EventStatus {
	switch a {
	case ActionApprove:
		return entity.EventStatusApproved
	case ActionNotApproved:
		return entity.EventStatusNotApproved
	case ActionOnHold:
		return entity.EventStatusOnHold
	case ActionDelete:
		return entity.EventStatusDeleted
	}
	return ""
}

// Can reports whether caller may apply action to ev. Admins may do anything;
// organizers may hold or delete their own events but never judge them.
func Can(ev entity.Event, action Action, caller Caller) bool {
	if caller.IsAdmin {
		return true
	}
	if caller.Email == "" || !strings.EqualFold(ev.Member, caller.Email) {
		return false
	}
	return action == ActionOnHold || action == ActionDelete
}

// CheckAllowed returns the actions caller may apply to every one of events.
func CheckAllowed(events []entity.Event, caller Caller) Allowed {
	out := Allowed{Valid: []Action{}, Invalid: []Action{}}
	for _, action := range Actions {
		if canAll(events, action, caller) {
			out.Valid = append(out.Valid, action)
		} else {
			out.Invalid = append(out.Invalid, action)
		}
	}
	return out
}

// AuthorizeBulk fails if caller may not apply action to any one of events.
func AuthorizeBulk(events []entity.Event, action Action, caller Caller) error {
	if _, err := ParseAction(string(action)); err != nil {
		return err
	}
	if len(events) == 0 {
		return ErrNoEvents
	}
	if !canAll(events, action, caller) {
		return ErrNotAuthorized
	}
	return nil
}

func canAll(events []entity.Event, action Action, caller Caller) bool {
	if len(events) == 0 {
		return false
	}
	for _, ev := range events {
		if !Can(ev, action, caller) {
			return false
		}
	}
	return true
}
