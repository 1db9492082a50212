package dto

type CreateReservationDTO struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	StartDate   string `json:"start_date" validate:"required,date_ymd"`
	EndDate     string `json:"end_date" validate:"required,date_ymd"`
	Purpose     string `json:"purpose,omitempty"`
}

type ApproveReservationDTO struct {
	AdminNotes string `json:"admin_notes,omitempty"`
}

type RejectReservationDTO struct {
	Reason     string `json:"reason" validate:"required"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

// UpdateReservationStatusDTO drives the admin force transition.
type UpdateReservationStatusDTO struct {
	Status string `json:"status" validate:"required,reservation_status"`
	Note   string `json:"note,omitempty"`
}

type AvailabilityDTO struct {
	EquipmentID string `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Available   bool   `json:"available"`
}
