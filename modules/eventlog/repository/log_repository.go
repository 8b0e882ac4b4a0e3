package repository

import (
	"context"

	"dojo-events/core/database"
	"dojo-events/core/logger"
	"dojo-events/modules/eventlog/entity"

	"github.com/jmoiron/sqlx"
)

const insertLogQuery = `
	INSERT INTO event_logs (id, event_id, user_email, description, created_at)
	VALUES (:id, :event_id, :user_email, :description, :created_at)
`

type LogRepository struct {
	db database.IDatabase
}

func NewLogRepository(db database.IDatabase) *LogRepository {
	return &LogRepository{db: db}
}

// Insert writes entries through ext, which may be a transaction owned by the
// caller.
func Insert(ctx context.Context, ext sqlx.ExtContext, entries ...entity.LogEntry) error {
	for _, entry := range entries {
		if _, err := sqlx.NamedExecContext(ctx, ext, insertLogQuery, entry); err != nil {
			logger.Error("LogRepository:Insert:Error", "event_id", entry.EventID, "error", err)
			return err
		}
	}
	return nil
}

func (r *LogRepository) Create(ctx context.Context, entry entity.LogEntry) error {
	return Insert(ctx, r.db.SQLx(), entry)
}

func (r *LogRepository) ListByEventID(ctx context.Context, eventID int64) ([]entity.LogEntry, error) {
	query := `
		SELECT id, event_id, user_email, description, created_at
		FROM event_logs
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	entries := []entity.LogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, eventID); err != nil {
		logger.Error("LogRepository:ListByEventID:Error", "event_id", eventID, "error", err)
		return nil, err
	}
	return entries, nil
}
