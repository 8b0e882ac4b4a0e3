package controller

import (
	"context"
	"strconv"

	"dojo-events/core/constants"
	"dojo-events/core/controller"
	"dojo-events/core/errors"
	"dojo-events/core/utils"
	"dojo-events/modules/event/dto"
	"dojo-events/modules/event/mapper"
	"dojo-events/modules/event/policy"
	"dojo-events/modules/event/rules"
	"dojo-events/modules/event/service"

	"github.com/labstack/echo/v4"
)

type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) caller(ctx echo.Context) (policy.Caller, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return policy.Caller{}, false
	}
	return policy.Caller{Email: rules.NormalizeEmail(claims.Email), IsAdmin: claims.IsAdmin}, true
}

func (c *EventController) eventID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, c.BadRequest(errors.ErrInvalidInput, "invalid event id")
	}
	return id, nil
}

// NewEventForm handles GET /new
func (c *EventController) NewEventForm(ctx echo.Context) error {
	return c.SuccessResponse(ctx, c.EventService.NewEventForm(), "Success")
}

// CreateEvent handles POST /new
// @Summary Submit an event request
// @Tags Event
// @Security BearerAuth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.EventRequest true "Event"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /new [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	caller, ok := c.caller(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.EventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), caller, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetEvent handles GET /event/:id
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return err
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventLogs handles GET /event/:id/logs
func (c *EventController) GetEventLogs(ctx echo.Context) error {
	id, err := c.eventID(ctx)
	if err != nil {
		return err
	}

	result, appErr := c.EventService.GetLogs(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// EditEvent handles POST /edit/:id
// @Summary Edit an event
// @Tags Event
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /edit/{id} [post]
func (c *EventController) EditEvent(ctx echo.Context) error {
	caller, ok := c.caller(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}
	id, err := c.eventID(ctx)
	if err != nil {
		return err
	}

	var req dto.EventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.EventService.EditEvent(ctx.Request().Context(), id, caller, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// ExpireSuspended handles GET /expire_suspended. It is called by cron and
// carries no identity.
func (c *EventController) ExpireSuspended(ctx echo.Context) error {
	n, appErr := c.EventService.ExpireSuspended(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.JSONResponse(ctx, dto.ExpireResponse{Expired: n})
}

// BulkAction handles POST /bulk_action
func (c *EventController) BulkAction(ctx echo.Context) error {
	caller, ok := c.caller(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.BulkActionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}
	ids, err := mapper.ParseEventIDs(req.Events)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, err.Error())
	}

	result, appErr := c.EventService.ApplyBulk(ctx.Request().Context(), ids, req.Action, caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Bulk action applied")
}

// BulkActionCheck handles POST /bulk_action_check. The body is the bare
// {"valid": [...], "invalid": [...]} document.
func (c *EventController) BulkActionCheck(ctx echo.Context) error {
	caller, ok := c.caller(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.BulkActionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}
	ids, err := mapper.ParseEventIDs(req.Events)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, err.Error())
	}

	result, appErr := c.EventService.CheckBulk(ctx.Request().Context(), ids, caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.JSONResponse(ctx, result)
}

// ListPending handles GET /pending
func (c *EventController) ListPending(ctx echo.Context) error {
	result, appErr := c.EventService.ListPending(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// OwnerSuspended handles POST /owner_suspended
func (c *EventController) OwnerSuspended(ctx echo.Context) error {
	return c.ownerChange(ctx, c.EventService.SuspendOwner)
}

// OwnerRestored handles POST /owner_restored
func (c *EventController) OwnerRestored(ctx echo.Context) error {
	return c.ownerChange(ctx, c.EventService.RestoreOwner)
}

type ownerFunc func(ctx context.Context, member string, caller policy.Caller) (*dto.OwnerResponse, *errors.AppError)

func (c *EventController) ownerChange(ctx echo.Context, apply ownerFunc) error {
	caller, ok := c.caller(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.OwnerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := apply(ctx.Request().Context(), req.Member, caller)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
