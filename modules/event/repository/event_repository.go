package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dojo-events/core/database"
	"dojo-events/core/logger"
	"dojo-events/modules/event/entity"
	logentity "dojo-events/modules/eventlog/entity"
	logrepo "dojo-events/modules/eventlog/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const eventColumns = `id, name, type, details, estimated_size, start_time, end_time, setup, teardown,
	rooms, member, other_member, status, original_status, owner_suspended_time, created_at, updated_at`

// ErrEventsMissing is returned by UpdateStatuses when some ids no longer exist.
var ErrEventsMissing = errors.New("some events were not found")

// EventRepository persists events in postgres. Every write also appends to
// event_logs in the same transaction.
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

type EventRepositoryInterface interface {
	Create(ctx context.Context, ev *entity.Event, actor, message string) (*entity.Event, error)
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Event, error)
	ListByMember(ctx context.Context, member string) ([]entity.Event, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]entity.Event, error)
	ListByStatus(ctx context.Context, status entity.EventStatus) ([]entity.Event, error)
	ListSuspended(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, ev *entity.Event, actor, message string) error
	UpdateStatuses(ctx context.Context, ids []int64, status entity.EventStatus, actor, message string) error
	UpdateLifecycle(ctx context.Context, events []entity.Event, actor, message string) error
}

func (r *EventRepository) Create(ctx context.Context, ev *entity.Event, actor, message string) (*entity.Event, error) {
	query := `
		INSERT INTO events (name, type, details, estimated_size, start_time, end_time, setup, teardown,
		                    rooms, member, other_member, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + eventColumns

	var created entity.Event
	err := database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &created, query,
			ev.Name, ev.Type, ev.Details, ev.EstimatedSize, ev.StartTime, ev.EndTime,
			ev.Setup, ev.Teardown, ev.Rooms, ev.Member, ev.OtherMember, ev.Status); err != nil {
			return err
		}
		return logrepo.Insert(ctx, tx, logentity.NewLogEntry(created.ID, actor, message))
	})
	if err != nil {
		logger.Error("EventRepository:Create:Error", "member", ev.Member, "error", err)
		return nil, err
	}

	return &created, nil
}

// GetByID returns nil, nil when the event does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var ev entity.Event
	if err := r.DB.GetContext(ctx, &ev, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "id", id, "error", err)
		return nil, err
	}
	return &ev, nil
}

func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1) ORDER BY id`

	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, pq.Array(ids)); err != nil {
		logger.Error("EventRepository:GetByIDs:Error", "count", len(ids), "error", err)
		return nil, err
	}
	return events, nil
}

// ListByMember returns member's events that still count toward quotas.
func (r *EventRepository) ListByMember(ctx context.Context, member string) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE lower(member) = lower($1) AND status = ANY($2)
		ORDER BY start_time
	`

	events := []entity.Event{}
	active := []string{
		string(entity.EventStatusPending),
		string(entity.EventStatusApproved),
		string(entity.EventStatusOnHold),
	}
	if err := r.DB.SelectContext(ctx, &events, query, member, pq.Array(active)); err != nil {
		logger.Error("EventRepository:ListByMember:Error", "member", member, "error", err)
		return nil, err
	}
	return events, nil
}

// ListStartingBetween returns pending and approved events starting in [from, to).
func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_time >= $1 AND start_time < $2 AND status = ANY($3)
		ORDER BY start_time
	`

	events := []entity.Event{}
	statuses := []string{string(entity.EventStatusPending), string(entity.EventStatusApproved)}
	if err := r.DB.SelectContext(ctx, &events, query, from, to, pq.Array(statuses)); err != nil {
		logger.Error("EventRepository:ListStartingBetween:Error", "from", from, "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListByStatus(ctx context.Context, status entity.EventStatus) ([]entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY start_time`

	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, status); err != nil {
		logger.Error("EventRepository:ListByStatus:Error", "status", status, "error", err)
		return nil, err
	}
	return events, nil
}

// ListSuspended returns on-hold events whose owner is suspended.
func (r *EventRepository) ListSuspended(ctx context.Context) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1 AND owner_suspended_time IS NOT NULL
		ORDER BY owner_suspended_time
	`

	events := []entity.Event{}
	if err := r.DB.SelectContext(ctx, &events, query, entity.EventStatusOnHold); err != nil {
		logger.Error("EventRepository:ListSuspended:Error", "error", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, ev *entity.Event, actor, message string) error {
	query := `
		UPDATE events
		SET name = $2, type = $3, details = $4, estimated_size = $5, start_time = $6, end_time = $7,
		    setup = $8, teardown = $9, rooms = $10, other_member = $11, status = $12, updated_at = NOW()
		WHERE id = $1
	`

	err := database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query,
			ev.ID, ev.Name, ev.Type, ev.Details, ev.EstimatedSize, ev.StartTime, ev.EndTime,
			ev.Setup, ev.Teardown, ev.Rooms, ev.OtherMember, ev.Status); err != nil {
			return err
		}
		return logrepo.Insert(ctx, tx, logentity.NewLogEntry(ev.ID, actor, message))
	})
	if err != nil {
		logger.Error("EventRepository:Update:Error", "id", ev.ID, "error", err)
	}
	return err
}

// UpdateStatuses sets status on every id atomically. Nothing changes if any id
// is missing.
func (r *EventRepository) UpdateStatuses(ctx context.Context, ids []int64, status entity.EventStatus, actor, message string) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = ANY($2)`

	err := database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, status, pq.Array(ids))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return ErrEventsMissing
		}

		entries := make([]logentity.LogEntry, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, logentity.NewLogEntry(id, actor, message))
		}
		return logrepo.Insert(ctx, tx, entries...)
	})
	if err != nil {
		logger.Error("EventRepository:UpdateStatuses:Error", "status", status, "count", len(ids), "error", err)
	}
	return err
}

// UpdateLifecycle saves status, original_status and owner_suspended_time of
// each event in one transaction.
func (r *EventRepository) UpdateLifecycle(ctx context.Context, events []entity.Event, actor, message string) error {
	query := `
		UPDATE events
		SET status = $2, original_status = $3, owner_suspended_time = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := database.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		for _, ev := range events {
			if _, err := tx.ExecContext(ctx, query, ev.ID, ev.Status, ev.OriginalStatus, ev.OwnerSuspendedTime); err != nil {
				return err
			}
			if err := logrepo.Insert(ctx, tx, logentity.NewLogEntry(ev.ID, actor, message)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("EventRepository:UpdateLifecycle:Error", "count", len(events), "error", err)
	}
	return err
}
