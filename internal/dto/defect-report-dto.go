package dto

import "github.com/aarondl/null/v8"

type CreateDefectReportDTO struct {
	EquipmentID      string      `json:"equipment_id" validate:"required"`
	IssueDescription string      `json:"issue_description" validate:"required,min=3"`
	Priority         null.String `json:"priority,omitempty" validate:"omitempty,defect_priority"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64      `json:"technician_id" validate:"required,gt=0"`
	Priority     null.String `json:"priority,omitempty" validate:"omitempty,defect_priority"`
	Instructions string      `json:"instructions,omitempty"`
}

type CompleteWorkDTO struct {
	WorkPerformed    string       `json:"work_performed" validate:"required"`
	PartsReplaced    string       `json:"parts_replaced,omitempty"`
	RepairCost       null.Float64 `json:"repair_cost,omitempty" validate:"omitempty,gte=0"`
	CompletionPhotos []string     `json:"completion_photos,omitempty"`
	TechnicianNotes  string       `json:"technician_notes,omitempty"`
}

type VerifyWorkDTO struct {
	Notes string `json:"notes,omitempty"`
}

type RejectWorkDTO struct {
	Reason string `json:"reason" validate:"required"`
}
