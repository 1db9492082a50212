package entities

import (
	"time"

	"equipment-portal/pkg/types"
)

type Reservation struct {
	ID          string     `json:"id"`
	UserID      uint64     `json:"user_id"`
	EquipmentID string     `json:"equipment_id"`
	Quantity    int        `json:"quantity"`
	StartDate   types.Date `json:"start_date"`
	EndDate     types.Date `json:"end_date"`
	Purpose     string     `json:"purpose"`
	Status      string     `json:"status"`

	ApprovedBy      *uint64    `json:"approved_by"`
	ApprovalDate    *time.Time `json:"approval_date"`
	RejectedBy      *uint64    `json:"rejected_by"`
	RejectionDate   *time.Time `json:"rejection_date"`
	RejectionReason *string    `json:"rejection_reason"`
	AdminNotes      string     `json:"admin_notes"`
	ActivatedAt     *time.Time `json:"activated_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CancelledBy     *uint64    `json:"cancelled_by"`
	RequestDate     *time.Time `json:"request_date"`

	StatusHistory []StatusChange `json:"status_history"`

	types.BaseEntity
	types.SoftDelete
}
