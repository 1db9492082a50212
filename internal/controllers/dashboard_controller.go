package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/services"
	"equipment-portal/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(service services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: service,
		logger:           logger,
	}
}

func (c *DashboardController) GetDashboardStats(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	stats, err := c.dashboardService.GetDashboardStats(ctx.Request().Context(), actor)
	if err != nil {
		logFailure(c.logger, "GetDashboardStats", err, zap.Uint64("userID", actor.UserID))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "dashboard stats", http.StatusOK)
}
