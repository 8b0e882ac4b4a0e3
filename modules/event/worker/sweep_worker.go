package worker

import (
	"context"

	"dojo-events/core/errors"
	"dojo-events/core/logger"

	"github.com/hibiken/asynq"
)

type Sweeper interface {
	ExpireSuspended(ctx context.Context) (int, *errors.AppError)
}

// SweepHandler runs the suspended event sweep for queue.TypeExpireSuspended.
type SweepHandler struct {
	sweeper Sweeper
}

func NewSweepHandler(s Sweeper) *SweepHandler {
	return &SweepHandler{sweeper: s}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	n, appErr := h.sweeper.ExpireSuspended(ctx)
	if appErr != nil {
		logger.Error("SweepHandler:ProcessTask:Error", "task", t.Type(), "error", appErr)
		return appErr
	}
	logger.Info("SweepHandler:ProcessTask:Done", "task", t.Type(), "expired", n)
	return nil
}
