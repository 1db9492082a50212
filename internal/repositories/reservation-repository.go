package repositories

import (
	"context"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

type ReservationRepositoryInterface interface {
	// CreateReservation inserts reservation unless guard, evaluated against
	// every stored reservation inside the collection lock, returns an error.
	CreateReservation(ctx context.Context, reservation *entities.Reservation, guard func(existing []entities.Reservation) error) (string, error)
	FindReservation(ctx context.Context, id string) (*entities.Reservation, error)
	GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]entities.Reservation, error)
	// TransitionReservation runs fn on the current reservation inside the
	// collection lock. others holds every other reservation.
	TransitionReservation(ctx context.Context, id string, fn func(reservation *entities.Reservation, others []entities.Reservation) error) (*entities.Reservation, error)
}

type ReservationRepository struct {
	storage *store.Store
}

func NewReservationRepository(storage *store.Store) ReservationRepositoryInterface {
	return &ReservationRepository{storage: storage}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation *entities.Reservation, guard func(existing []entities.Reservation) error) (string, error) {
	rec, err := toRecord(constants.CollectionReservations, reservation)
	if err != nil {
		return "", err
	}
	delete(rec, store.FieldID)

	var check func([]store.Record) error
	if guard != nil {
		check = func(existing []store.Record) error {
			all, err := fromRecords[entities.Reservation](constants.CollectionReservations, existing)
			if err != nil {
				return err
			}
			return guard(all)
		}
	}
	return r.storage.InsertIf(ctx, constants.CollectionReservations, rec, check)
}

func (r *ReservationRepository) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	rec, err := r.storage.Get(ctx, constants.CollectionReservations, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Reservation](constants.CollectionReservations, rec)
}

// GetReservations supports filter[status], filter[equipment_id] and
// filter[user_id].
func (r *ReservationRepository) GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error) {
	recs, err := r.storage.List(ctx, constants.CollectionReservations)
	if err != nil {
		return nil, 0, err
	}
	all, err := fromRecords[entities.Reservation](constants.CollectionReservations, recs)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]entities.Reservation, 0, len(all))
	for i := range all {
		res := &all[i]
		if v, ok := filter.Value("status"); ok && !matchesAny(res.Status, v) {
			continue
		}
		if v, ok := filter.Value("equipment_id"); ok && !matchesAny(res.EquipmentID, v) {
			continue
		}
		if v, ok := filter.Value("user_id"); ok && !matchesUserID(&res.UserID, v) {
			continue
		}
		matched = append(matched, *res)
	}
	return types.Paginate(matched, filter), uint64(len(matched)), nil
}

func (r *ReservationRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]entities.Reservation, error) {
	recs, err := r.storage.Filter(ctx, constants.CollectionReservations, func(rec store.Record) bool {
		return rec["equipment_id"] == equipmentID
	})
	if err != nil {
		return nil, err
	}
	return fromRecords[entities.Reservation](constants.CollectionReservations, recs)
}

func (r *ReservationRepository) TransitionReservation(ctx context.Context, id string, fn func(reservation *entities.Reservation, others []entities.Reservation) error) (*entities.Reservation, error) {
	rec, err := r.storage.MutateWith(ctx, constants.CollectionReservations, id, func(current store.Record, siblings []store.Record) (store.Record, error) {
		reservation, err := fromRecord[entities.Reservation](constants.CollectionReservations, current)
		if err != nil {
			return nil, err
		}
		others, err := fromRecords[entities.Reservation](constants.CollectionReservations, siblings)
		if err != nil {
			return nil, err
		}
		if err := fn(reservation, others); err != nil {
			return nil, err
		}
		return toRecord(constants.CollectionReservations, reservation)
	})
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Reservation](constants.CollectionReservations, rec)
}
