package services

import "context"

// TechnicianDirectory tells whether a user can take defect assignments.
type TechnicianDirectory interface {
	IsAvailable(ctx context.Context, userID uint64) bool
}

type rosterDirectory struct {
	ids map[uint64]struct{}
}

// NewRosterDirectory builds a directory from a fixed roster. An empty roster
// accepts every user id, leaving the check to the identity provider.
func NewRosterDirectory(ids []uint64) TechnicianDirectory {
	d := &rosterDirectory{ids: make(map[uint64]struct{}, len(ids))}
	for _, id := range ids {
		d.ids[id] = struct{}{}
	}
	return d
}

func (d *rosterDirectory) IsAvailable(_ context.Context, userID uint64) bool {
	if userID == 0 {
		return false
	}
	if len(d.ids) == 0 {
		return true
	}
	_, ok := d.ids[userID]
	return ok
}
