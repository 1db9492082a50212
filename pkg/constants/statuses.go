package constants

// Defect report statuses. A rejected completion loops back to DefectStatusInProgress.
const (
	DefectStatusReported   = "reported"
	DefectStatusAssigned   = "assigned"
	DefectStatusInProgress = "in_progress"
	DefectStatusCompleted  = "completed"
	DefectStatusVerified   = "verified"
)

// Defect priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var DefectPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Reservation statuses.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusApproved  = "approved"
	ReservationStatusActive    = "active"
	ReservationStatusCompleted = "completed"
	ReservationStatusRejected  = "rejected"
	ReservationStatusCancelled = "cancelled"
)

var ReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusApproved,
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusRejected,
	ReservationStatusCancelled,
}

// Reservations in these statuses never block a date range.
var NonBlockingReservationStatuses = []string{
	ReservationStatusCancelled,
	ReservationStatusRejected,
}

// Equipment statuses.
const (
	EquipmentStatusAvailable   = "available"
	EquipmentStatusReserved    = "reserved"
	EquipmentStatusInUse       = "in_use"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusDefective   = "defective"
	EquipmentStatusRetired     = "retired"
)

var EquipmentStatuses = []string{
	EquipmentStatusAvailable,
	EquipmentStatusReserved,
	EquipmentStatusInUse,
	EquipmentStatusMaintenance,
	EquipmentStatusDefective,
	EquipmentStatusRetired,
}

func Contains(list []string, code string) bool {
	for _, s := range list {
		if s == code {
			return true
		}
	}
	return false
}
