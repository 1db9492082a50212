package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/services"
	"equipment-portal/pkg/filestorage"
	"equipment-portal/pkg/middleware"
	"equipment-portal/pkg/service"
)

// InitRouter mounts every portal route under /api. All routes need a bearer token.
func InitRouter(
	e *echo.Echo,
	svc *services.Services,
	fileStorage filestorage.FileStorageInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) {
	logger.Info("InitRouter: registering routes")

	authMW := middleware.NewAuthMiddleware(jwtSvc, logger.Named("auth"))
	secureGroup := e.Group("/api", authMW.Auth)

	runEquipmentRouter(secureGroup, svc.Equipment, svc.Reservations, svc.Importer, logger)
	runDefectReportRouter(secureGroup, svc.Defects, logger)
	runUploadRouter(secureGroup, fileStorage, svc.Defects, logger)
	runReservationRouter(secureGroup, svc.Reservations, logger)
	runNotificationRouter(secureGroup, svc.Notifications, logger)
	runDashboardRouter(secureGroup, svc.Dashboard, logger)

	logger.Info("InitRouter: routes registered")
}
