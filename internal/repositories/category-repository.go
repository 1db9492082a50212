package repositories

import (
	"context"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
)

type CategoryRepositoryInterface interface {
	GetCategories(ctx context.Context) ([]entities.Category, error)
	FindCategory(ctx context.Context, id string) (*entities.Category, error)
	CreateCategory(ctx context.Context, category *entities.Category) (string, error)
}

type CategoryRepository struct {
	storage *store.Store
}

func NewCategoryRepository(storage *store.Store) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage}
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]entities.Category, error) {
	recs, err := r.storage.List(ctx, constants.CollectionCategories)
	if err != nil {
		return nil, err
	}
	return fromRecords[entities.Category](constants.CollectionCategories, recs)
}

func (r *CategoryRepository) FindCategory(ctx context.Context, id string) (*entities.Category, error) {
	rec, err := r.storage.Get(ctx, constants.CollectionCategories, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Category](constants.CollectionCategories, rec)
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *entities.Category) (string, error) {
	rec, err := toRecord(constants.CollectionCategories, category)
	if err != nil {
		return "", err
	}
	if category.ID == "" {
		delete(rec, store.FieldID)
	}
	return r.storage.Insert(ctx, constants.CollectionCategories, rec)
}
