package sweeper

import (
	"testing"
	"time"

	"dojo-events/modules/event/entity"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func suspended(id int64, status entity.EventStatus, ago time.Duration) entity.Event {
	at := now.Add(-ago)
	return entity.Event{ID: id, Status: status, OwnerSuspendedTime: &at, OriginalStatus: entity.EventStatusPending}
}

func TestExpired(t *testing.T) {
	expiry := ExpiryFromDays(14)
	events := []entity.Event{
		suspended(1, entity.EventStatusOnHold, expiry),
		suspended(2, entity.EventStatusOnHold, expiry-5*24*time.Hour),
		suspended(3, entity.EventStatusOnHold, expiry+time.Hour),
		suspended(4, entity.EventStatusExpired, 2*expiry),
		suspended(5, entity.EventStatusPending, 2*expiry),
		{ID: 6, Status: entity.EventStatusOnHold},
	}

	assert.Equal(t, []int64{1, 3}, Expired(events, now, expiry))
}

func TestExpired_Idempotent(t *testing.T) {
	expiry := ExpiryFromDays(14)
	events := []entity.Event{
		suspended(1, entity.EventStatusOnHold, expiry),
		suspended(2, entity.EventStatusOnHold, time.Hour),
	}

	first := Expired(events, now, expiry)
	for i := range events {
		for _, id := range first {
			if events[i].ID == id {
				events[i].Status = entity.EventStatusExpired
			}
		}
	}
	second := Expired(events, now, expiry)

	assert.Equal(t, []int64{1}, first)
	assert.Empty(t, second)
	assert.Equal(t, entity.EventStatusOnHold, events[1].Status)
}

func TestExpired_Empty(t *testing.T) {
	assert.NotNil(t, Expired(nil, now, time.Hour))
}
