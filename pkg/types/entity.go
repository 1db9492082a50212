package types

import "time"

type BaseEntity struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SoftDelete struct {
	DeletedAt *time.Time `json:"deleted_at"`
}

func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}
