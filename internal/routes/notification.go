package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-portal/internal/controllers"
	"equipment-portal/internal/services"
)

func runNotificationRouter(group *echo.Group, notificationService services.NotificationServiceInterface, logger *zap.Logger) {
	notificationCtrl := controllers.NewNotificationController(notificationService, logger.Named("notifications"))

	notifications := group.Group("/notifications")
	notifications.GET("", notificationCtrl.GetNotifications)
	notifications.GET("/unread-count", notificationCtrl.CountUnread)
	notifications.POST("/read-all", notificationCtrl.MarkAllRead)
	notifications.POST("/:id/read", notificationCtrl.MarkRead)
}
