package entities

import (
	"equipment-portal/pkg/types"
)

type Equipment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CategoryID  string `json:"category_id"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Description string `json:"description"`

	types.BaseEntity
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	types.BaseEntity
}
