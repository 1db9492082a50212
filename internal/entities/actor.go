package entities

import "equipment-portal/pkg/constants"

// Actor is the verified identity a workflow call runs as.
type Actor struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the actor may run admin transitions. Handlers are
// the dispatching staff and share admin rights over workflows.
func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin || a.Role == constants.RoleHandler
}

func (a Actor) IsTechnician() bool {
	return a.Role == constants.RoleTechnician
}

// System is the actor used by operator tooling.
func System() Actor {
	return Actor{UserID: 0, Role: constants.RoleAdmin}
}
