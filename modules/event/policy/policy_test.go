package policy

import (
	"testing"

	"dojo-events/modules/event/entity"

	"github.com/stretchr/testify/assert"
)

const owner = "testy.testerson@gmail.com"

func ownedEvents(n int) []entity.Event {
	events := make([]entity.Event, n)
	for i := range events {
		events[i] = entity.Event{ID: int64(i + 1), Member: owner, Status: entity.EventStatusPending}
	}
	return events
}

func TestCheckAllowed_Owner(t *testing.T) {
	got := CheckAllowed(ownedEvents(3), Caller{Email: "Testy.Testerson@gmail.com"})

	assert.Equal(t, []Action{ActionOnHold, ActionDelete}, got.Valid)
	assert.Equal(t, []Action{ActionApprove, ActionNotApproved}, got.Invalid)
}

func TestCheckAllowed_Admin(t *testing.T) {
	got := CheckAllowed(ownedEvents(3), Caller{Email: "testy.testerson1@gmail.com", IsAdmin: true})

	assert.Equal(t, Actions, got.Valid)
	assert.NotNil(t, got.Invalid)
	assert.Empty(t, got.Invalid)
}

func TestCheckAllowed_Stranger(t *testing.T) {
	got := CheckAllowed(ownedEvents(1), Caller{Email: "someone@else.com"})

	assert.Empty(t, got.Valid)
	assert.Equal(t, Actions, got.Invalid)
}

func TestCheckAllowed_MixedOwnership(t *testing.T) {
	events := ownedEvents(2)
	events[1].Member = "someone@else.com"

	got := CheckAllowed(events, Caller{Email: owner})

	assert.Empty(t, got.Valid)
}

func TestAuthorizeBulk(t *testing.T) {
	events := ownedEvents(3)

	assert.ErrorIs(t, AuthorizeBulk(events, ActionApprove, Caller{Email: owner}), ErrNotAuthorized)
	assert.ErrorIs(t, AuthorizeBulk(events, ActionNotApproved, Caller{Email: owner}), ErrNotAuthorized)
	assert.NoError(t, AuthorizeBulk(events, ActionOnHold, Caller{Email: owner}))
	assert.NoError(t, AuthorizeBulk(events, ActionDelete, Caller{Email: owner}))
	assert.NoError(t, AuthorizeBulk(events, ActionApprove, Caller{Email: "admin@dojo.com", IsAdmin: true}))

	events[2].Member = "someone@else.com"
	assert.ErrorIs(t, AuthorizeBulk(events, ActionOnHold, Caller{Email: owner}), ErrNotAuthorized)

	assert.ErrorIs(t, AuthorizeBulk(events, Action("publish"), Caller{IsAdmin: true}), ErrUnknownAction)
	assert.ErrorIs(t, AuthorizeBulk(nil, ActionDelete, Caller{IsAdmin: true}), ErrNoEvents)
}

func TestParseActionAndTargetStatus(t *testing.T) {
	a, err := ParseAction(" NotApproved ")
	assert.NoError(t, err)
	assert.Equal(t, ActionNotApproved, a)
	assert.Equal(t, entity.EventStatusNotApproved, a.TargetStatus())

	assert.Equal(t, entity.EventStatusApproved, ActionApprove.TargetStatus())
	assert.Equal(t, entity.EventStatusOnHold, ActionOnHold.TargetStatus())
	assert.Equal(t, entity.EventStatusDeleted, ActionDelete.TargetStatus())

	_, err = ParseAction("")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
