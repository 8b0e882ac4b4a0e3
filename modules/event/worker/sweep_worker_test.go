package worker

import (
	"context"
	"testing"

	"dojo-events/core/errors"
	"dojo-events/core/queue"

	"github.com/stretchr/testify/assert"
)

type stubSweeper struct {
	calls int
	err   *errors.AppError
}

func (s *stubSweeper) ExpireSuspended(context.Context) (int, *errors.AppError) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return 3, nil
}

func TestSweepHandler_ProcessTask(t *testing.T) {
	s := &stubSweeper{}
	h := NewSweepHandler(s)

	assert.NoError(t, h.ProcessTask(context.Background(), queue.NewExpireSuspendedTask()))
	assert.Equal(t, 1, s.calls)
}

func TestSweepHandler_ProcessTask_Error(t *testing.T) {
	s := &stubSweeper{err: errors.NewAppError(errors.ErrUpdateFailed, "expire events failed", nil)}
	h := NewSweepHandler(s)

	err := h.ProcessTask(context.Background(), queue.NewExpireSuspendedTask())
	assert.Error(t, err)
}
