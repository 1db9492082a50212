package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
)

func runDefectReportRouter(group *echo.Group, defectService services.DefectWorkflowServiceInterface, logger *zap.Logger) {
	defectCtrl := controllers.NewDefectReportController(defectService, logger.Named("defects"))

	defects := group.Group("/defects")
	defects.GET("", defectCtrl.GetDefectReports)
	defects.POST("", defectCtrl.SubmitDefectReport)
	defects.GET("/:id", defectCtrl.FindDefectReport)
	defects.POST("/:id/assign", defectCtrl.AssignTechnician)
	defects.POST("/:id/claim", defectCtrl.ClaimTask)
	defects.POST("/:id/start", defectCtrl.StartWork)
	defects.POST("/:id/complete", defectCtrl.CompleteWork)
	defects.POST("/:id/verify", defectCtrl.VerifyWork)
	defects.POST("/:id/reject", defectCtrl.RejectWork)
}
