package constants

//============== ROLES ==============

// Roles supplied by the identity provider.
const (
	RoleAdmin      = "admin"
	RoleHandler    = "handler"
	RoleTechnician = "technician"
	RoleUser       = "user"
)

var Roles = []string{RoleAdmin, RoleHandler, RoleTechnician, RoleUser}

//============== COLLECTIONS ==============

// Record store collection names.
const (
	CollectionEquipment     = "equipment"
	CollectionCategories    = "categories"
	CollectionDefectReports = "defect_reports"
	CollectionReservations  = "reservations"
	CollectionNotifications = "notifications"
)

//============== NOTIFICATION TYPES ==============

const (
	NotificationTaskAssigned             = "task_assigned"
	NotificationTaskClaimed              = "task_claimed"
	NotificationTaskCompleted            = "task_completed"
	NotificationReportResolved           = "report_resolved"
	NotificationTaskVerified             = "task_verified"
	NotificationTaskRejected             = "task_rejected"
	NotificationReservationApproved      = "reservation_approved"
	NotificationReservationRejected      = "reservation_rejected"
	NotificationReservationStatusChanged = "reservation_status_changed"
)

//============== UPLOAD CONTEXTS ==============

// UploadContext is the key prefix for stored uploads.
type UploadContext string

const (
	UploadContextCompletionPhoto UploadContext = "completion_photos"
	UploadContextEquipmentImport UploadContext = "equipment_imports"
)

func (uc UploadContext) String() string {
	return string(uc)
}
