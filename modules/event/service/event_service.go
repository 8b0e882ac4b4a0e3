package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dojo-events/core/cache"
	"dojo-events/core/constants"
	"dojo-events/core/errors"
	"dojo-events/core/logger"
	"dojo-events/core/metrics"
	"dojo-events/modules/event/dto"
	"dojo-events/modules/event/entity"
	"dojo-events/modules/event/mapper"
	"dojo-events/modules/event/policy"
	"dojo-events/modules/event/repository"
	"dojo-events/modules/event/rules"
	"dojo-events/modules/event/sweeper"
	logentity "dojo-events/modules/eventlog/entity"
)

const systemActor = "system"

// LogLister reads the audit trail of an event.
type LogLister interface {
	ListByEventID(ctx context.Context, eventID int64) ([]logentity.LogEntry, *errors.AppError)
}

// Options carries the configuration the service needs besides the engine.
type Options struct {
	Rooms           []string
	EventTypes      []string
	SuspendedExpiry time.Duration
}

type EventService struct {
	repo   repository.EventRepositoryInterface
	logs   LogLister
	cache  cache.Cache
	engine *rules.Engine
	opts   Options
	rooms  map[string]struct{}
}

type EventServiceInterface interface {
	NewEventForm() dto.NewEventFormResponse
	CreateEvent(ctx context.Context, caller policy.Caller, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id int64) (*dto.EventResponse, *errors.AppError)
	EditEvent(ctx context.Context, id int64, caller policy.Caller, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError)
	GetLogs(ctx context.Context, id int64) ([]dto.LogEntryResponse, *errors.AppError)
	CheckBulk(ctx context.Context, ids []int64, caller policy.Caller) (*policy.Allowed, *errors.AppError)
	ApplyBulk(ctx context.Context, ids []int64, action string, caller policy.Caller) (*dto.BulkActionResponse, *errors.AppError)
	ListPending(ctx context.Context) (*dto.EventListResponse, *errors.AppError)
	ExpireSuspended(ctx context.Context) (int, *errors.AppError)
	SuspendOwner(ctx context.Context, member string, caller policy.Caller) (*dto.OwnerResponse, *errors.AppError)
	RestoreOwner(ctx context.Context, member string, caller policy.Caller) (*dto.OwnerResponse, *errors.AppError)
}

func NewEventService(repo repository.EventRepositoryInterface, logs LogLister, c cache.Cache, engine *rules.Engine, opts Options) EventServiceInterface {
	rooms := make(map[string]struct{}, len(opts.Rooms))
	for _, r := range opts.Rooms {
		rooms[rules.RoomKey(r)] = struct{}{}
	}
	return &EventService{
		repo:   repo,
		logs:   logs,
		cache:  c,
		engine: engine,
		opts:   opts,
		rooms:  rooms,
	}
}

func (s *EventService) NewEventForm() dto.NewEventFormResponse {
	return dto.NewEventFormResponse{
		Title:      "New Event",
		Rooms:      append([]string{}, s.opts.Rooms...),
		EventTypes: append([]string{}, s.opts.EventTypes...),
		Timezone:   s.engine.Config().Location.String(),
	}
}

func (s *EventService) CreateEvent(ctx context.Context, caller policy.Caller, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	candidate, err := mapper.ToEntity(req, s.engine.Config().Location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}

	organizerEvents, dayEvents, appErr := s.loadContext(ctx, caller.Email, candidate.StartTime)
	if appErr != nil {
		return nil, appErr
	}

	prepared, err := s.engine.ValidateAndPrepare(candidate, caller.Email, organizerEvents, dayEvents)
	if err != nil {
		return nil, ruleViolation(err, "create")
	}
	if appErr := s.checkRooms(prepared.Rooms); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.Create(ctx, prepared, prepared.Member, "Event created")
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", err)
	}

	metrics.RecordSubmission("create")
	s.invalidatePending(ctx)
	logger.Info("EventService:CreateEvent:Success", "id", created.ID, "member", created.Member)

	resp := mapper.ToResponse(created)
	return &resp, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	ev, appErr := s.findEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	resp := mapper.ToResponse(ev)
	return &resp, nil
}

// EditEvent lets the organizer or an admin change an active event.
func (s *EventService) EditEvent(ctx context.Context, id int64, caller policy.Caller, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	existing, appErr := s.findEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if !caller.IsAdmin && !strings.EqualFold(existing.Member, caller.Email) {
		return nil, errors.NewAppError(errors.ErrForbidden, "you may not edit this event", nil)
	}
	if !existing.Status.Active() {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("an event in status %s can no longer be edited", existing.Status), nil)
	}

	candidate, err := mapper.ToEntity(req, s.engine.Config().Location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}

	organizerEvents, dayEvents, appErr := s.loadContext(ctx, existing.Member, candidate.StartTime)
	if appErr != nil {
		return nil, appErr
	}

	prepared, err := s.engine.ValidateEdit(*existing, candidate, organizerEvents, dayEvents)
	if err != nil {
		return nil, ruleViolation(err, "edit")
	}
	if appErr := s.checkRooms(prepared.Rooms); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, prepared, caller.Email, "Event edited"); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update event failed", err)
	}

	metrics.RecordSubmission("edit")
	s.invalidatePending(ctx)
	logger.Info("EventService:EditEvent:Success", "id", id, "by", caller.Email, "status", prepared.Status)

	resp := mapper.ToResponse(prepared)
	return &resp, nil
}

func (s *EventService) GetLogs(ctx context.Context, id int64) ([]dto.LogEntryResponse, *errors.AppError) {
	if _, appErr := s.findEvent(ctx, id); appErr != nil {
		return nil, appErr
	}
	entries, appErr := s.logs.ListByEventID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToLogResponses(entries), nil
}

func (s *EventService) CheckBulk(ctx context.Context, ids []int64, caller policy.Caller) (*policy.Allowed, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, appErr := s.loadAll(ctx, ids)
	if appErr != nil {
		return nil, appErr
	}
	allowed := policy.CheckAllowed(events, caller)
	return &allowed, nil
}

// ApplyBulk moves every event in ids to the status of action, or none of them.
func (s *EventService) ApplyBulk(ctx context.Context, ids []int64, action string, caller policy.Caller) (*dto.BulkActionResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	act, err := policy.ParseAction(action)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown action %q", action), err)
	}

	events, appErr := s.loadAll(ctx, ids)
	if appErr != nil {
		return nil, appErr
	}

	if err := policy.AuthorizeBulk(events, act, caller); err != nil {
		metrics.RecordBulkAction(string(act), "denied")
		logger.Warn("EventService:ApplyBulk:Denied", "action", act, "by", caller.Email, "count", len(ids))
		return nil, errors.NewAppError(errors.ErrNotAuthorized, err.Error(), err)
	}

	status := act.TargetStatus()
	message := fmt.Sprintf("Status changed to %s", status)
	if err := s.repo.UpdateStatuses(ctx, ids, status, caller.Email, message); err != nil {
		metrics.RecordBulkAction(string(act), "failed")
		if errors.Is(err, repository.ErrEventsMissing) {
			return nil, errors.NewAppError(errors.ErrNotFound, "event not found", err)
		}
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "bulk action failed", err)
	}

	metrics.RecordBulkAction(string(act), "ok")
	s.invalidatePending(ctx)
	logger.Info("EventService:ApplyBulk:Success", "action", act, "by", caller.Email, "count", len(ids))

	return &dto.BulkActionResponse{Action: string(act), Status: string(status), Updated: ids}, nil
}

// ListPending serves the admin queue from redis when it can.
func (s *EventService) ListPending(ctx context.Context) (*dto.EventListResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	var cached dto.EventListResponse
	err := s.cache.GetJSON(ctx, constants.RedisKeyPendingEvents, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("EventService:ListPending:CacheRead", "error", err)
	}

	events, err := s.repo.ListByStatus(ctx, entity.EventStatusPending)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list pending events failed", err)
	}

	resp := mapper.ToListResponse(events)
	if err := s.cache.SetJSON(ctx, constants.RedisKeyPendingEvents, resp, constants.PendingEventsTTL); err != nil {
		logger.Warn("EventService:ListPending:CacheWrite", "error", err)
	}
	return &resp, nil
}

// ExpireSuspended expires on-hold events whose owner has been suspended for
// too long. A sweep that finds another one running reports 0.
func (s *EventService) ExpireSuspended(ctx context.Context) (int, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	locked, err := s.cache.AcquireLock(ctx, constants.RedisKeySweepLock, constants.SweepLockTTL)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "acquire sweep lock failed", err)
	}
	if !locked {
		logger.Info("EventService:ExpireSuspended:AlreadyRunning")
		return 0, nil
	}
	defer func() {
		if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), constants.RedisKeySweepLock); err != nil {
			logger.Warn("EventService:ExpireSuspended:ReleaseLock", "error", err)
		}
	}()

	started := time.Now()
	suspended, err := s.repo.ListSuspended(ctx)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "list suspended events failed", err)
	}

	ids := sweeper.Expired(suspended, s.engine.Now(), s.opts.SuspendedExpiry)
	if len(ids) > 0 {
		if err := s.repo.UpdateStatuses(ctx, ids, entity.EventStatusExpired, systemActor, "Expired after owner suspension"); err != nil {
			return 0, errors.NewAppError(errors.ErrUpdateFailed, "expire events failed", err)
		}
		s.invalidatePending(ctx)
	}

	metrics.RecordSweep(len(ids), time.Since(started).Seconds())
	logger.Info("EventService:ExpireSuspended:Done", "scanned", len(suspended), "expired", len(ids))
	return len(ids), nil
}

// SuspendOwner puts member's pending and approved events on hold, remembering
// their status.
func (s *EventService) SuspendOwner(ctx context.Context, member string, caller policy.Caller) (*dto.OwnerResponse, *errors.AppError) {
	if !caller.IsAdmin {
		return nil, errors.NewAppError(errors.ErrForbidden, "admin only", nil)
	}
	member = rules.NormalizeEmail(member)
	if member == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "member is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.ListByMember(ctx, member)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list member events failed", err)
	}

	now := s.engine.Now().UTC()
	changed := []entity.Event{}
	for _, ev := range events {
		if ev.Status != entity.EventStatusPending && ev.Status != entity.EventStatusApproved {
			continue
		}
		ev.OriginalStatus = ev.Status
		ev.Status = entity.EventStatusOnHold
		ev.OwnerSuspendedTime = &now
		changed = append(changed, ev)
	}

	return s.saveLifecycle(ctx, member, changed, caller, "Owner suspended")
}

// RestoreOwner returns member's suspended events to the status they had.
func (s *EventService) RestoreOwner(ctx context.Context, member string, caller policy.Caller) (*dto.OwnerResponse, *errors.AppError) {
	if !caller.IsAdmin {
		return nil, errors.NewAppError(errors.ErrForbidden, "admin only", nil)
	}
	member = rules.NormalizeEmail(member)
	if member == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "member is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.ListByMember(ctx, member)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list member events failed", err)
	}

	changed := []entity.Event{}
	for _, ev := range events {
		if ev.Status != entity.EventStatusOnHold || ev.OwnerSuspendedTime == nil {
			continue
		}
		ev.Status = ev.OriginalStatus
		if ev.Status == "" {
			ev.Status = entity.EventStatusPending
		}
		ev.OriginalStatus = ""
		ev.OwnerSuspendedTime = nil
		changed = append(changed, ev)
	}

	return s.saveLifecycle(ctx, member, changed, caller, "Owner restored")
}

func (s *EventService) saveLifecycle(ctx context.Context, member string, changed []entity.Event, caller policy.Caller, message string) (*dto.OwnerResponse, *errors.AppError) {
	ids := make([]int64, 0, len(changed))
	for _, ev := range changed {
		ids = append(ids, ev.ID)
	}
	if len(changed) > 0 {
		if err := s.repo.UpdateLifecycle(ctx, changed, caller.Email, message); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "update member events failed", err)
		}
		s.invalidatePending(ctx)
	}

	logger.Info("EventService:"+strings.ReplaceAll(message, " ", ""), "member", member, "by", caller.Email, "count", len(ids))
	return &dto.OwnerResponse{Member: member, Updated: ids}, nil
}

func (s *EventService) findEvent(ctx context.Context, id int64) (*entity.Event, *errors.AppError) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if ev == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return ev, nil
}

// loadAll fails with not found unless every id exists.
func (s *EventService) loadAll(ctx context.Context, ids []int64) ([]entity.Event, *errors.AppError) {
	if len(ids) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, policy.ErrNoEvents.Error(), policy.ErrNoEvents)
	}
	events, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get events failed", err)
	}
	if len(events) != len(ids) {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return events, nil
}

// loadContext fetches what the rules engine needs: the organizer's events and
// every event starting on the same facility day as start.
func (s *EventService) loadContext(ctx context.Context, organizer string, start time.Time) ([]entity.Event, []entity.Event, *errors.AppError) {
	organizerEvents, err := s.repo.ListByMember(ctx, rules.NormalizeEmail(organizer))
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "list member events failed", err)
	}

	from, to := s.engine.DayBounds(start)
	dayEvents, err := s.repo.ListStartingBetween(ctx, from, to)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "list day events failed", err)
	}
	return organizerEvents, dayEvents, nil
}

func (s *EventService) checkRooms(rooms []string) *errors.AppError {
	if len(s.rooms) == 0 {
		return nil
	}
	for _, r := range rooms {
		if _, ok := s.rooms[rules.RoomKey(r)]; !ok {
			return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown room %q", r), nil)
		}
	}
	return nil
}

func (s *EventService) invalidatePending(ctx context.Context) {
	if err := s.cache.Del(ctx, constants.RedisKeyPendingEvents); err != nil {
		logger.Warn("EventService:InvalidatePending", "error", err)
	}
}

func ruleViolation(err error, operation string) *errors.AppError {
	var re *rules.RuleError
	if errors.As(err, &re) {
		metrics.RecordRuleViolation(string(re.Rule), operation)
		return errors.NewAppError(errors.ErrRuleViolation, re.Message, err)
	}
	return errors.NewAppError(errors.ErrInternalServer, "validate event failed", err)
}
