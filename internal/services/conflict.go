package services

import (
	"context"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/repositories"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

// FindReservationConflict returns the first reservation of equipmentID whose
// inclusive date range overlaps [start, end], or nil. Cancelled and rejected
// reservations never conflict and excludeID, when set, is skipped.
func FindReservationConflict(reservations []entities.Reservation, equipmentID string, start, end types.Date, excludeID string) *entities.Reservation {
	for i := range reservations {
		r := &reservations[i]
		if r.EquipmentID != equipmentID {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if constants.Contains(constants.NonBlockingReservationStatuses, r.Status) {
			continue
		}
		if !start.After(r.EndDate) && !end.Before(r.StartDate) {
			return r
		}
	}
	return nil
}

// ReservationConflictDetector answers availability questions from the store.
// Workflow writes do not use it: they run FindReservationConflict inside the
// collection lock instead.
type ReservationConflictDetector struct {
	repo repositories.ReservationRepositoryInterface
}

func NewReservationConflictDetector(repo repositories.ReservationRepositoryInterface) *ReservationConflictDetector {
	return &ReservationConflictDetector{repo: repo}
}

func (d *ReservationConflictDetector) HasConflict(ctx context.Context, equipmentID string, start, end types.Date, excludeID string) (bool, error) {
	reservations, err := d.repo.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return false, err
	}
	return FindReservationConflict(reservations, equipmentID, start, end, excludeID) != nil, nil
}
