package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	CategoryID  string `json:"category_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Status      string `json:"status" validate:"omitempty,equipment_status"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description,omitempty"`
}

type UpdateEquipmentDTO struct {
	Name        null.String `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	CategoryID  null.String `json:"category_id,omitempty"`
	Quantity    null.Int    `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Status      null.String `json:"status,omitempty" validate:"omitempty,equipment_status"`
	Location    null.String `json:"location,omitempty"`
	Description null.String `json:"description,omitempty"`
}

type CreateCategoryDTO struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description,omitempty"`
}
