package repositories

import (
	"context"
	"strings"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id string) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (string, error)
	UpdateEquipment(ctx context.Context, id string, changes store.Record) error
}

type EquipmentRepository struct {
	storage *store.Store
}

func NewEquipmentRepository(storage *store.Store) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
	}
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	recs, err := r.storage.List(ctx, constants.CollectionEquipment)
	if err != nil {
		return nil, 0, err
	}
	all, err := fromRecords[entities.Equipment](constants.CollectionEquipment, recs)
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(filter.Search)
	matched := make([]entities.Equipment, 0, len(all))
	for _, e := range all {
		if v, ok := filter.Value("status"); ok && !matchesAny(e.Status, v) {
			continue
		}
		if v, ok := filter.Value("category_id"); ok && !matchesAny(e.CategoryID, v) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Location), search) {
			continue
		}
		matched = append(matched, e)
	}
	return types.Paginate(matched, filter), uint64(len(matched)), nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	rec, err := r.storage.Get(ctx, constants.CollectionEquipment, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Equipment](constants.CollectionEquipment, rec)
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (string, error) {
	rec, err := toRecord(constants.CollectionEquipment, equipment)
	if err != nil {
		return "", err
	}
	if equipment.ID == "" {
		delete(rec, store.FieldID)
	}
	return r.storage.Insert(ctx, constants.CollectionEquipment, rec)
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id string, changes store.Record) error {
	return r.storage.Update(ctx, constants.CollectionEquipment, id, changes)
}
