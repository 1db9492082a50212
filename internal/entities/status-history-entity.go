package entities

import "time"

// StatusChange is one entry of an entity's audit trail.
type StatusChange struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID uint64    `json:"actor_id"`
	At      time.Time `json:"at"`
	Note    string    `json:"note,omitempty"`
	Forced  bool      `json:"forced,omitempty"`
}
