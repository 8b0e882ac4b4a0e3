package service

import (
	"context"
	"testing"
	"time"

	"dojo-events/core/constants"
	"dojo-events/core/errors"
	"dojo-events/modules/event/dto"
	"dojo-events/modules/event/entity"
	"dojo-events/modules/event/policy"
	"dojo-events/modules/event/rules"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday.
var now = time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)

var (
	member = policy.Caller{Email: "testy.testerson@gmail.com"}
	admin  = policy.Caller{Email: "admin@dojo.com", IsAdmin: true}
	other  = policy.Caller{Email: "someone.else@gmail.com"}
)

func newTestService(t *testing.T) (EventServiceInterface, *fakeRepo, *fakeCache) {
	t.Helper()
	repo := newFakeRepo()
	c := newFakeCache()
	engine := rules.NewEngine(rules.DefaultConfig(), rules.WithClock(func() time.Time { return now }))
	svc := NewEventService(repo, fakeLogs{repo: repo}, c, engine, Options{
		Rooms:           []string{"Main Space", "Classroom"},
		EventTypes:      []string{"Meetup"},
		SuspendedExpiry: 14 * 24 * time.Hour,
	})
	return svc, repo, c
}

// request builds an evening event (outside operating hours) days from now.
func request(days int, hours int) *dto.EventRequest {
	start := now.AddDate(0, 0, days).Add(11 * time.Hour)
	return &dto.EventRequest{
		Name:      "Test Event",
		Type:      "Meetup",
		Rooms:     []string{"Classroom"},
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(time.Duration(hours) * time.Hour).Format(time.RFC3339),
	}
}

func seed(repo *fakeRepo, owner string, status entity.EventStatus, days int) int64 {
	start := now.AddDate(0, 0, days).Add(11 * time.Hour)
	return repo.put(entity.Event{
		Name:      "Seeded",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Rooms:     pq.StringArray{"Classroom"},
		Member:    owner,
		Status:    status,
	})
}

func TestCreateEvent_Success(t *testing.T) {
	svc, repo, c := newTestService(t)
	require.NoError(t, c.SetJSON(context.Background(), constants.RedisKeyPendingEvents, dto.EventListResponse{}, time.Minute))

	resp, appErr := svc.CreateEvent(context.Background(), member, request(1, 2))
	require.Nil(t, appErr)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, member.Email, resp.Member)
	assert.Len(t, repo.logs, 1)
	assert.Equal(t, "Event created", repo.logs[0].Description)
	assert.NotContains(t, c.values, constants.RedisKeyPendingEvents)
}

func TestCreateEvent_RuleViolation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, appErr := svc.CreateEvent(context.Background(), member, request(1, 25))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrRuleViolation, appErr.Code)
	assert.Contains(t, appErr.Message, "specify second")
}

func TestCreateEvent_FutureLimit(t *testing.T) {
	svc, repo, _ := newTestService(t)
	for i := 0; i < 10; i++ {
		seed(repo, member.Email, entity.EventStatusApproved, 40+i)
	}

	_, appErr := svc.CreateEvent(context.Background(), member, request(60, 2))
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, "future events")
}

func TestCreateEvent_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := request(1, 2)
	req.StartTime = "tomorrow"
	_, appErr := svc.CreateEvent(context.Background(), member, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = request(1, 2)
	req.Rooms = []string{"Roof"}
	_, appErr = svc.CreateEvent(context.Background(), member, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestEditEvent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seed(repo, member.Email, entity.EventStatusApproved, 2)

	t.Run("stranger forbidden", func(t *testing.T) {
		_, appErr := svc.EditEvent(context.Background(), id, other, request(2, 2))
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, appErr := svc.EditEvent(context.Background(), 999, member, request(2, 2))
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("same schedule keeps approval", func(t *testing.T) {
		req := request(2, 2)
		req.Name = "Renamed"
		resp, appErr := svc.EditEvent(context.Background(), id, member, req)
		require.Nil(t, appErr)
		assert.Equal(t, "Renamed", resp.Name)
		assert.Equal(t, "approved", resp.Status)
	})

	t.Run("moved event needs approval again", func(t *testing.T) {
		resp, appErr := svc.EditEvent(context.Background(), id, admin, request(3, 2))
		require.Nil(t, appErr)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, member.Email, resp.Member)
	})
}

func TestApplyBulk(t *testing.T) {
	svc, repo, _ := newTestService(t)
	a := seed(repo, member.Email, entity.EventStatusPending, 1)
	b := seed(repo, member.Email, entity.EventStatusPending, 2)
	theirs := seed(repo, other.Email, entity.EventStatusPending, 3)

	_, appErr := svc.ApplyBulk(context.Background(), []int64{a, b}, "approve", member)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotAuthorized, appErr.Code)
	assert.Equal(t, entity.EventStatusPending, repo.get(a).Status)

	_, appErr = svc.ApplyBulk(context.Background(), []int64{a, theirs}, "delete", member)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotAuthorized, appErr.Code)
	assert.Equal(t, entity.EventStatusPending, repo.get(a).Status)

	resp, appErr := svc.ApplyBulk(context.Background(), []int64{a, b}, "onhold", member)
	require.Nil(t, appErr)
	assert.Equal(t, "onhold", resp.Status)
	assert.Equal(t, entity.EventStatusOnHold, repo.get(b).Status)

	_, appErr = svc.ApplyBulk(context.Background(), []int64{a, b, theirs}, "approve", admin)
	require.Nil(t, appErr)
	assert.Equal(t, entity.EventStatusApproved, repo.get(theirs).Status)

	_, appErr = svc.ApplyBulk(context.Background(), []int64{a, 999}, "approve", admin)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, appErr = svc.ApplyBulk(context.Background(), []int64{a}, "publish", admin)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCheckBulk(t *testing.T) {
	svc, repo, _ := newTestService(t)
	mine := seed(repo, member.Email, entity.EventStatusPending, 1)
	theirs := seed(repo, other.Email, entity.EventStatusPending, 2)

	allowed, appErr := svc.CheckBulk(context.Background(), []int64{mine}, member)
	require.Nil(t, appErr)
	assert.Equal(t, []policy.Action{policy.ActionOnHold, policy.ActionDelete}, allowed.Valid)
	assert.Equal(t, []policy.Action{policy.ActionApprove, policy.ActionNotApproved}, allowed.Invalid)

	allowed, appErr = svc.CheckBulk(context.Background(), []int64{mine, theirs}, member)
	require.Nil(t, appErr)
	assert.Empty(t, allowed.Valid)
	assert.Len(t, allowed.Invalid, 4)
}

func TestExpireSuspended(t *testing.T) {
	svc, repo, c := newTestService(t)
	old := now.AddDate(0, 0, -15)
	recent := now.AddDate(0, 0, -3)

	expiring := seed(repo, member.Email, entity.EventStatusOnHold, 5)
	ev := repo.get(expiring)
	ev.OwnerSuspendedTime = &old
	repo.put(ev)

	waiting := seed(repo, member.Email, entity.EventStatusOnHold, 6)
	ev = repo.get(waiting)
	ev.OwnerSuspendedTime = &recent
	repo.put(ev)

	n, appErr := svc.ExpireSuspended(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 1, n)
	assert.Equal(t, entity.EventStatusExpired, repo.get(expiring).Status)
	assert.Equal(t, entity.EventStatusOnHold, repo.get(waiting).Status)

	n, appErr = svc.ExpireSuspended(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 0, n)

	c.locks[constants.RedisKeySweepLock] = true
	n, appErr = svc.ExpireSuspended(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 0, n)
}

func TestSuspendAndRestoreOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	approved := seed(repo, member.Email, entity.EventStatusApproved, 1)
	pending := seed(repo, member.Email, entity.EventStatusPending, 2)
	rejected := seed(repo, member.Email, entity.EventStatusNotApproved, 3)

	_, appErr := svc.SuspendOwner(context.Background(), member.Email, member)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	resp, appErr := svc.SuspendOwner(context.Background(), "Testy.Testerson@gmail.com", admin)
	require.Nil(t, appErr)
	assert.ElementsMatch(t, []int64{approved, pending}, resp.Updated)
	assert.Equal(t, entity.EventStatusOnHold, repo.get(approved).Status)
	assert.Equal(t, entity.EventStatusApproved, repo.get(approved).OriginalStatus)
	assert.NotNil(t, repo.get(pending).OwnerSuspendedTime)
	assert.Equal(t, entity.EventStatusNotApproved, repo.get(rejected).Status)

	resp, appErr = svc.RestoreOwner(context.Background(), member.Email, admin)
	require.Nil(t, appErr)
	assert.Len(t, resp.Updated, 2)
	assert.Equal(t, entity.EventStatusApproved, repo.get(approved).Status)
	assert.Equal(t, entity.EventStatusPending, repo.get(pending).Status)
	assert.Nil(t, repo.get(approved).OwnerSuspendedTime)
}

func TestListPending_UsesCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seed(repo, member.Email, entity.EventStatusPending, 1)
	seed(repo, member.Email, entity.EventStatusApproved, 2)

	first, appErr := svc.ListPending(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 1, first.Total)

	second, appErr := svc.ListPending(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 1, repo.pending)

	_, appErr = svc.CreateEvent(context.Background(), member, request(3, 2))
	require.Nil(t, appErr)

	third, appErr := svc.ListPending(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 2, third.Total)
	assert.Equal(t, 2, repo.pending)
}

func TestGetLogs(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, appErr := svc.CreateEvent(context.Background(), member, request(1, 2))
	require.Nil(t, appErr)
	_, appErr = svc.ApplyBulk(context.Background(), []int64{created.ID}, "approve", admin)
	require.Nil(t, appErr)

	logs, appErr := svc.GetLogs(context.Background(), created.ID)
	require.Nil(t, appErr)
	require.Len(t, logs, 2)
	assert.Equal(t, "Status changed to approved", logs[1].Description)
	assert.Equal(t, admin.Email, logs[1].User)

	_, appErr = svc.GetLogs(context.Background(), 404)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestNewEventForm(t *testing.T) {
	svc, _, _ := newTestService(t)
	form := svc.NewEventForm()
	assert.Equal(t, "New Event", form.Title)
	assert.Equal(t, []string{"Main Space", "Classroom"}, form.Rooms)
}
