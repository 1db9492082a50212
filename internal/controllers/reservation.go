package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/utils"
)

type ReservationController struct {
	reservationService services.ReservationServiceInterface
	logger             *zap.Logger
}

func NewReservationController(service services.ReservationServiceInterface, logger *zap.Logger) *ReservationController {
	return &ReservationController{
		reservationService: service,
		logger:             logger,
	}
}

// GetReservations lists reservations. Non admins only see their own.
func (c *ReservationController) GetReservations(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	if !actor.IsAdmin() {
		filter.Filter["user_id"] = strconv.FormatUint(actor.UserID, 10)
	}

	res, total, err := c.reservationService.GetReservations(ctx.Request().Context(), filter)
	if err != nil {
		logFailure(c.logger, "GetReservations", err)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "reservation list", http.StatusOK, total)
}

func (c *ReservationController) FindReservation(ctx echo.Context) error {
	res, err := c.reservationService.FindReservation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		logFailure(c.logger, "FindReservation", err, zap.String("id", ctx.Param("id")))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "reservation found", http.StatusOK)
}

func (c *ReservationController) RequestReservation(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateReservationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.reservationService.RequestReservation(ctx.Request().Context(), actor, payload)
	if err != nil {
		logFailure(c.logger, "RequestReservation", err, zap.Any("payload", payload))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "reservation requested", http.StatusCreated)
}

func (c *ReservationController) ApproveReservation(ctx echo.Context) error {
	var payload dto.ApproveReservationDTO
	return c.transition(ctx, "ApproveReservation", &payload, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.ApproveReservation(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *ReservationController) RejectReservation(ctx echo.Context) error {
	var payload dto.RejectReservationDTO
	return c.transition(ctx, "RejectReservation", &payload, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.RejectReservation(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *ReservationController) ActivateReservation(ctx echo.Context) error {
	return c.transition(ctx, "ActivateReservation", nil, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.ActivateReservation(ctx.Request().Context(), actor, id)
	})
}

func (c *ReservationController) CompleteReservation(ctx echo.Context) error {
	return c.transition(ctx, "CompleteReservation", nil, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.CompleteReservation(ctx.Request().Context(), actor, id)
	})
}

func (c *ReservationController) CancelReservation(ctx echo.Context) error {
	return c.transition(ctx, "CancelReservation", nil, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.CancelReservation(ctx.Request().Context(), actor, id)
	})
}

func (c *ReservationController) UpdateReservationStatus(ctx echo.Context) error {
	var payload dto.UpdateReservationStatusDTO
	return c.transition(ctx, "UpdateReservationStatus", &payload, func(actor entities.Actor, id string) (*entities.Reservation, error) {
		return c.reservationService.UpdateReservationStatus(ctx.Request().Context(), actor, id, payload)
	})
}

func (c *ReservationController) transition(
	ctx echo.Context,
	op string,
	payload interface{},
	fn func(actor entities.Actor, id string) (*entities.Reservation, error),
) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if payload != nil {
		if err := bindAndValidate(ctx, payload); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	id := ctx.Param("id")
	res, err := fn(actor, id)
	if err != nil {
		logFailure(c.logger, op, err, zap.String("id", id), zap.Uint64("actorID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "reservation is "+res.Status, http.StatusOK)
}
