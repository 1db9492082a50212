package services

import (
	"go.uber.org/zap"

	"equipment-portal/internal/repositories"
	"equipment-portal/internal/store"
)

// Services is every workflow service wired over one record store. The
// store doubles as the clock.
type Services struct {
	Equipment     EquipmentServiceInterface
	Defects       DefectWorkflowServiceInterface
	Reservations  ReservationServiceInterface
	Notifications NotificationServiceInterface
	Dashboard     DashboardServiceInterface
	Importer      EquipmentImporterInterface
}

// NewServices accepts a nil events publisher.
func NewServices(storage *store.Store, events EventPublisher, technicians TechnicianDirectory, logger *zap.Logger) *Services {
	equipmentRepo := repositories.NewEquipmentRepository(storage)
	categoryRepo := repositories.NewCategoryRepository(storage)
	reportRepo := repositories.NewDefectReportRepository(storage)
	reservationRepo := repositories.NewReservationRepository(storage)
	notificationRepo := repositories.NewNotificationRepository(storage)

	equipment := NewEquipmentService(equipmentRepo, categoryRepo, logger.Named("equipment"))
	notifications := NewNotificationService(notificationRepo, storage, events, logger.Named("notifications"))

	return &Services{
		Equipment:     equipment,
		Defects:       NewDefectWorkflowService(reportRepo, equipmentRepo, notifications, technicians, storage, events, logger.Named("defects")),
		Reservations:  NewReservationService(reservationRepo, equipmentRepo, notifications, storage, events, logger.Named("reservations")),
		Notifications: notifications,
		Dashboard:     NewDashboardService(reportRepo, reservationRepo, equipmentRepo, notificationRepo, storage, logger.Named("dashboard")),
		Importer:      NewEquipmentImportService(equipment, logger.Named("import")),
	}
}
