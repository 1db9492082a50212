package entities

import (
	"time"

	"equipment-portal/pkg/types"
)

type DefectReport struct {
	ID               string `json:"id"`
	EquipmentID      string `json:"equipment_id"`
	ReporterID       uint64 `json:"reporter_id"`
	IssueDescription string `json:"issue_description"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`

	AssignedTo          *uint64 `json:"assigned_to"`
	AssignedBy          *uint64 `json:"assigned_by"`
	HandlerInstructions string  `json:"handler_instructions"`

	TechnicianNotes  string   `json:"technician_notes"`
	WorkPerformed    string   `json:"work_performed"`
	PartsReplaced    string   `json:"parts_replaced"`
	RepairCost       *float64 `json:"repair_cost"`
	CompletionPhotos []string `json:"completion_photos"`

	VerifiedBy        *uint64 `json:"verified_by"`
	VerificationNotes string  `json:"verification_notes"`

	RejectionReason *string `json:"rejection_reason"`
	RejectedBy      *uint64 `json:"rejected_by"`

	ReportDate       *time.Time `json:"report_date"`
	AssignedDate     *time.Time `json:"assigned_date"`
	StartedDate      *time.Time `json:"started_date"`
	CompletionDate   *time.Time `json:"completion_date"`
	VerificationDate *time.Time `json:"verification_date"`
	RejectedDate     *time.Time `json:"rejected_date"`

	StatusHistory []StatusChange `json:"status_history"`

	types.BaseEntity
}

// IsAssignedTo reports whether userID is the current assignee.
func (r *DefectReport) IsAssignedTo(userID uint64) bool {
	return r.AssignedTo != nil && *r.AssignedTo == userID
}
