package router

import (
	"dojo-events/core/middleware"
	"dojo-events/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes. Everything but the sweep trigger needs a token.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	auth := mw.AuthMiddleware()
	admin := mw.AdminMiddleware()
	ctrl := r.EventController

	e.GET("/new", ctrl.NewEventForm, auth)
	e.POST("/new", ctrl.CreateEvent, auth)
	e.GET("/event/:id", ctrl.GetEvent, auth)
	e.GET("/event/:id/logs", ctrl.GetEventLogs, auth)
	e.POST("/edit/:id", ctrl.EditEvent, auth)

	e.POST("/bulk_action", ctrl.BulkAction, auth)
	e.POST("/bulk_action_check", ctrl.BulkActionCheck, auth)

	// Admin
	e.GET("/pending", ctrl.ListPending, auth, admin)
	e.POST("/owner_suspended", ctrl.OwnerSuspended, auth, admin)
	e.POST("/owner_restored", ctrl.OwnerRestored, auth, admin)

	// Cron
	e.GET("/expire_suspended", ctrl.ExpireSuspended)
}
