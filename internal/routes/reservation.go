package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
)

func runReservationRouter(group *echo.Group, reservationService services.ReservationServiceInterface, logger *zap.Logger) {
	reservationCtrl := controllers.NewReservationController(reservationService, logger.Named("reservations"))

	reservations := group.Group("/reservations")
	reservations.GET("", reservationCtrl.GetReservations)
	reservations.POST("", reservationCtrl.RequestReservation)
	reservations.GET("/:id", reservationCtrl.FindReservation)
	reservations.POST("/:id/approve", reservationCtrl.ApproveReservation)
	reservations.POST("/:id/reject", reservationCtrl.RejectReservation)
	reservations.POST("/:id/activate", reservationCtrl.ActivateReservation)
	reservations.POST("/:id/complete", reservationCtrl.CompleteReservation)
	reservations.POST("/:id/cancel", reservationCtrl.CancelReservation)
	reservations.PUT("/:id/status", reservationCtrl.UpdateReservationStatus)
}
