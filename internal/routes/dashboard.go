package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
)

func runDashboardRouter(group *echo.Group, dashboardService services.DashboardServiceInterface, logger *zap.Logger) {
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger.Named("dashboard"))
	group.GET("/dashboard", dashboardCtrl.GetDashboardStats)
}
