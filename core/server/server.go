package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dojo-events/core/cache"
	"dojo-events/core/config"
	"dojo-events/core/constants"
	"dojo-events/core/database"
	"dojo-events/core/logger"
	"dojo-events/core/middleware"
	"dojo-events/core/queue"
	"dojo-events/core/utils"
	"dojo-events/modules/auth"
	"dojo-events/modules/event"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Run loads configuration, connects postgres and redis, serves HTTP and runs
// the sweep worker until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	e := NewEcho()
	mw := middleware.NewMiddleware(cfg.JWT.Secret)
	appCache := cache.NewCache(redisClient)
	auth.Init(e, appCache, cfg)
	sweepHandler := event.Init(e, &db, appCache, cfg.Events, mw)

	worker := queue.NewWorker(cfg.Redis, cfg.Queue)
	worker.Handle(queue.TypeExpireSuspended, sweepHandler)
	if _, err := worker.Schedule(cfg.Queue.SweepCron, queue.NewExpireSuspendedTask()); err != nil {
		return err
	}
	if err := worker.Start(); err != nil {
		return err
	}
	defer worker.Shutdown()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "environment", cfg.Environment)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// NewEcho builds the echo instance with the shared middleware and the
// operational endpoints.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: utils.GenerateID}))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: constants.DefaultTimeout}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP:Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
