package sweeper

import (
	"time"

	"dojo-events/modules/event/entity"
)

// Expired returns the ids of on-hold events whose owner has been suspended for
// at least expiry. Events in any other status are never selected, so running
// the sweep again after applying its result selects nothing new.
func Expired(events []entity.Event, now time.Time, expiry time.Duration) []int64 {
	ids := []int64{}
	for _, ev := range events {
		if ev.Status != entity.EventStatusOnHold || ev.OwnerSuspendedTime == nil {
			continue
		}
		if now.Sub(*ev.OwnerSuspendedTime) >= expiry {
			ids = append(ids, ev.ID)
		}
	}
	return ids
}

// ExpiryFromDays converts the SUSPENDED_EVENT_EXPIRY setting.
func ExpiryFromDays(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
