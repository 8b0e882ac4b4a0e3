package queue

import (
	"context"
	"fmt"
	"os"

	"dojo-events/core/config"
	"dojo-events/core/constants"
	"dojo-events/core/logger"

	"github.com/hibiken/asynq"
)

// TypeExpireSuspended runs the suspended event sweep.
const TypeExpireSuspended = "event:expire_suspended"

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewExpireSuspendedTask() *asynq.Task {
	return asynq.NewTask(TypeExpireSuspended, nil,
		asynq.MaxRetry(3),
		asynq.Timeout(constants.DefaultTimeout),
	)
}

// Worker bundles the asynq server, its mux and the periodic scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
}

func NewWorker(redisCfg config.RedisConfig, queueCfg config.QueueConfig) *Worker {
	opt := RedisOpt(redisCfg)
	concurrency := queueCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		server: asynq.NewServer(opt, asynq.Config{
			Concurrency: concurrency,
			Logger:      asynqLogger{},
		}),
		mux:       asynq.NewServeMux(),
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{Logger: asynqLogger{}}),
	}
}

func (w *Worker) Handle(taskType string, handler asynq.Handler) {
	w.mux.Handle(taskType, handler)
}

func (w *Worker) HandleFunc(taskType string, fn func(context.Context, *asynq.Task) error) {
	w.mux.HandleFunc(taskType, fn)
}

// Schedule enqueues task on every tick of cronspec ("@every 1h", "0 * * * *").
func (w *Worker) Schedule(cronspec string, task *asynq.Task) (string, error) {
	id, err := w.scheduler.Register(cronspec, task)
	if err != nil {
		return "", fmt.Errorf("schedule %s: %w", task.Type(), err)
	}
	logger.Info("Queue:Schedule", "task", task.Type(), "cron", cronspec, "entry", id)
	return id, nil
}

func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start queue server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	logger.Info("Queue:Start")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	logger.Info("Queue:Shutdown")
}

// asynqLogger routes asynq's own logging through the package logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { logger.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { logger.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { logger.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { logger.Error(fmt.Sprint(args...)) }

func (asynqLogger) Fatal(args ...any) {
	logger.Error(fmt.Sprint(args...))
	logger.Sync()
	os.Exit(1)
}
