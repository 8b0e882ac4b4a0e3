package service

import (
	"context"

	"dojo-events/core/constants"
	"dojo-events/core/errors"
	"dojo-events/modules/eventlog/entity"
	"dojo-events/modules/eventlog/repository"
)

type LogService struct {
	repo *repository.LogRepository
}

func NewLogService(repo *repository.LogRepository) *LogService {
	return &LogService{repo: repo}
}

func (s *LogService) ListByEventID(ctx context.Context, eventID int64) ([]entity.LogEntry, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	entries, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event log failed", err)
	}
	return entries, nil
}
