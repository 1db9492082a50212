package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
)

func runEquipmentRouter(
	group *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	reservationService services.ReservationServiceInterface,
	importer services.EquipmentImporterInterface,
	logger *zap.Logger,
) {
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, reservationService, importer, logger.Named("equipment"))

	group.GET("/equipment", equipmentCtrl.GetEquipments)
	group.GET("/equipment/:id", equipmentCtrl.FindEquipment)
	group.GET("/equipment/:id/availability", equipmentCtrl.CheckAvailability)
	group.POST("/equipment", equipmentCtrl.CreateEquipment)
	group.POST("/equipment/import", equipmentCtrl.ImportEquipment)
	group.PUT("/equipment/:id", equipmentCtrl.UpdateEquipment)

	group.GET("/categories", equipmentCtrl.GetCategories)
	group.POST("/categories", equipmentCtrl.CreateCategory)
}
