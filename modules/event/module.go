package event

import (
	"time"

	"dojo-events/core/cache"
	"dojo-events/core/config"
	"dojo-events/core/database"
	"dojo-events/core/middleware"
	"dojo-events/modules/event/controller"
	"dojo-events/modules/event/repository"
	"dojo-events/modules/event/router"
	"dojo-events/modules/event/rules"
	"dojo-events/modules/event/service"
	"dojo-events/modules/event/sweeper"
	"dojo-events/modules/event/worker"
	logrepo "dojo-events/modules/eventlog/repository"
	logservice "dojo-events/modules/eventlog/service"

	"github.com/labstack/echo/v4"
)

// RulesConfig maps the events settings onto the rules engine.
func RulesConfig(cfg config.EventsConfig) rules.Config {
	rc := rules.DefaultConfig()
	rc.MaxFutureEvents = cfg.MaxFutureEvents
	rc.MaxFourWeeks = cfg.MaxFourWeeks
	rc.FourWeekWindow = time.Duration(cfg.FourWeekWindowDays) * 24 * time.Hour
	rc.OpenHour = cfg.OperatingHoursOpen
	rc.CloseHour = cfg.OperatingHoursClose
	rc.Location = cfg.Location()
	return rc
}

// Init initializes the event module, registers its routes and returns the
// handler for the periodic sweep task.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, cfg config.EventsConfig, mw *middleware.Middleware) *worker.SweepHandler {
	logs := logservice.NewLogService(logrepo.NewLogRepository(db))
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, logs, c, rules.NewEngine(RulesConfig(cfg)), service.Options{
		Rooms:           cfg.Rooms,
		EventTypes:      cfg.EventTypes,
		SuspendedExpiry: sweeper.ExpiryFromDays(cfg.SuspendedEventExpiry),
	})
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)

	return worker.NewSweepHandler(svc)
}
