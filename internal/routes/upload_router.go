package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/filestorage"
)

func runUploadRouter(
	group *echo.Group,
	fileStorage filestorage.FileStorageInterface,
	defectService services.DefectWorkflowServiceInterface,
	logger *zap.Logger,
) {
	uploadController := controllers.NewUploadController(fileStorage, defectService, logger.Named("upload"))

	group.POST("/defects/:id/photos", uploadController.UploadCompletionPhotos)
}
