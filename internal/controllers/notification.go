package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/api"
	"equipment-portal/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(service services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		notificationService: service,
		logger:              logger,
	}
}

// GetNotifications returns the caller's notifications and broadcasts, newest first.
func (c *NotificationController) GetNotifications(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.notificationService.GetNotifications(ctx.Request().Context(), actor, filter)
	if err != nil {
		logFailure(c.logger, "GetNotifications", err, zap.Uint64("userID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return api.SuccessList(ctx, "notification list", res, total, filter.Page, filter.Limit)
}

func (c *NotificationController) CountUnread(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	unread, err := c.notificationService.CountUnread(ctx.Request().Context(), actor)
	if err != nil {
		logFailure(c.logger, "CountUnread", err, zap.Uint64("userID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return api.SuccessOne(ctx, http.StatusOK, "unread count", dto.UnreadCountDTO{Unread: unread})
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.notificationService.MarkRead(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		logFailure(c.logger, "MarkRead", err, zap.String("id", ctx.Param("id")))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return api.SuccessOne(ctx, http.StatusOK, "notification read", res)
}

func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.notificationService.MarkAllRead(ctx.Request().Context(), actor)
	if err != nil {
		logFailure(c.logger, "MarkAllRead", err, zap.Uint64("userID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return api.SuccessOne(ctx, http.StatusOK, "notifications read", dto.MarkAllReadDTO{Updated: updated})
}
