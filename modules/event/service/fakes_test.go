package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"dojo-events/core/cache"
	"dojo-events/core/errors"
	"dojo-events/modules/event/entity"
	"dojo-events/modules/event/repository"
	logentity "dojo-events/modules/eventlog/entity"
)

type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	events  map[int64]entity.Event
	logs    []logentity.LogEntry
	pending int // ListByStatus calls
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, events: map[int64]entity.Event{}}
}

var _ repository.EventRepositoryInterface = (*fakeRepo)(nil)

func (r *fakeRepo) put(ev entity.Event) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.ID == 0 {
		ev.ID = r.nextID
		r.nextID++
	}
	r.events[ev.ID] = ev
	return ev.ID
}

func (r *fakeRepo) get(id int64) entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id]
}

func (r *fakeRepo) log(id int64, actor, message string) {
	r.logs = append(r.logs, logentity.NewLogEntry(id, actor, message))
}

func (r *fakeRepo) Create(_ context.Context, ev *entity.Event, actor, message string) (*entity.Event, error) {
	created := *ev
	created.ID = 0
	id := r.put(created)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log(id, actor, message)
	out := r.events[id]
	return &out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (r *fakeRepo) GetByIDs(_ context.Context, ids []int64) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Event{}
	for _, id := range ids {
		if ev, ok := r.events[id]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeRepo) filter(keep func(entity.Event) bool) []entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Event{}
	for id := int64(1); id < r.nextID; id++ {
		if ev, ok := r.events[id]; ok && keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func (r *fakeRepo) ListByMember(_ context.Context, member string) ([]entity.Event, error) {
	return r.filter(func(ev entity.Event) bool {
		return strings.EqualFold(ev.Member, member) && ev.Status.Active()
	}), nil
}

func (r *fakeRepo) ListStartingBetween(_ context.Context, from, to time.Time) ([]entity.Event, error) {
	return r.filter(func(ev entity.Event) bool {
		if ev.Status != entity.EventStatusPending && ev.Status != entity.EventStatusApproved {
			return false
		}
		return !ev.StartTime.Before(from) && ev.StartTime.Before(to)
	}), nil
}

func (r *fakeRepo) ListByStatus(_ context.Context, status entity.EventStatus) ([]entity.Event, error) {
	r.mu.Lock()
	r.pending++
	r.mu.Unlock()
	return r.filter(func(ev entity.Event) bool { return ev.Status == status }), nil
}

func (r *fakeRepo) ListSuspended(_ context.Context) ([]entity.Event, error) {
	return r.filter(func(ev entity.Event) bool {
		return ev.Status == entity.EventStatusOnHold && ev.OwnerSuspendedTime != nil
	}), nil
}

func (r *fakeRepo) Update(_ context.Context, ev *entity.Event, actor, message string) error {
	r.put(*ev)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log(ev.ID, actor, message)
	return nil
}

func (r *fakeRepo) UpdateStatuses(_ context.Context, ids []int64, status entity.EventStatus, actor, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.events[id]; !ok {
			return repository.ErrEventsMissing
		}
	}
	for _, id := range ids {
		ev := r.events[id]
		ev.Status = status
		r.events[id] = ev
		r.log(id, actor, message)
	}
	return nil
}

func (r *fakeRepo) UpdateLifecycle(_ context.Context, events []entity.Event, actor, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range events {
		stored := r.events[ev.ID]
		stored.Status = ev.Status
		stored.OriginalStatus = ev.OriginalStatus
		stored.OwnerSuspendedTime = ev.OwnerSuspendedTime
		r.events[ev.ID] = stored
		r.log(ev.ID, actor, message)
	}
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string][]byte
	locks  map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}, locks: map[string]bool{}}
}

var _ cache.Cache = (*fakeCache)(nil)

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *fakeCache) ReleaseLock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	return nil
}

type fakeLogs struct {
	repo *fakeRepo
}

func (l fakeLogs) ListByEventID(_ context.Context, eventID int64) ([]logentity.LogEntry, *errors.AppError) {
	l.repo.mu.Lock()
	defer l.repo.mu.Unlock()
	out := []logentity.LogEntry{}
	for _, e := range l.repo.logs {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}
