package services

import (
	"context"

	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/repositories"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id string) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, actor entities.Actor, data dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, actor entities.Actor, id string, data dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	GetCategories(ctx context.Context) ([]entities.Category, error)
	CreateCategory(ctx context.Context, actor entities.Actor, data dto.CreateCategoryDTO) (*entities.Category, error)
}

// EquipmentService owns inventory records. Workflows only read them.
type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	categoryRepository  repositories.CategoryRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	categoryRepository repositories.CategoryRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		categoryRepository:  categoryRepository,
		logger:              logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepository.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id string) (*entities.Equipment, error) {
	return s.equipmentRepository.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, actor entities.Actor, data dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("only staff can add equipment")
	}
	if data.Quantity < 1 {
		return nil, apperrors.NewInvalidInputError("quantity must be at least 1")
	}
	status := data.Status
	if status == "" {
		status = constants.EquipmentStatusAvailable
	}
	if !constants.Contains(constants.EquipmentStatuses, status) {
		return nil, apperrors.NewInvalidInputError("unknown equipment status %q", status)
	}
	if _, err := s.categoryRepository.FindCategory(ctx, data.CategoryID); err != nil {
		return nil, err
	}

	equipment := &entities.Equipment{
		Name:        data.Name,
		CategoryID:  data.CategoryID,
		Quantity:    data.Quantity,
		Status:      status,
		Location:    data.Location,
		Description: data.Description,
	}
	id, err := s.equipmentRepository.CreateEquipment(ctx, equipment)
	if err != nil {
		s.logger.Error("create equipment failed", zap.String("name", data.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("equipment created", zap.String("id", id), zap.Uint64("actor_id", actor.UserID))
	return s.equipmentRepository.FindEquipment(ctx, id)
}

// UpdateEquipment writes only the fields present in data.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor entities.Actor, id string, data dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("only staff can edit equipment")
	}

	changes := store.Record{}
	if data.Name.Valid {
		changes["name"] = data.Name.String
	}
	if data.CategoryID.Valid {
		if _, err := s.categoryRepository.FindCategory(ctx, data.CategoryID.String); err != nil {
			return nil, err
		}
		changes["category_id"] = data.CategoryID.String
	}
	if data.Quantity.Valid {
		if data.Quantity.Int < 1 {
			return nil, apperrors.NewInvalidInputError("quantity must be at least 1")
		}
		changes["quantity"] = data.Quantity.Int
	}
	if data.Status.Valid {
		if !constants.Contains(constants.EquipmentStatuses, data.Status.String) {
			return nil, apperrors.NewInvalidInputError("unknown equipment status %q", data.Status.String)
		}
		changes["status"] = data.Status.String
	}
	if data.Location.Valid {
		changes["location"] = data.Location.String
	}
	if data.Description.Valid {
		changes["description"] = data.Description.String
	}

	if err := s.equipmentRepository.UpdateEquipment(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.equipmentRepository.FindEquipment(ctx, id)
}

func (s *EquipmentService) GetCategories(ctx context.Context) ([]entities.Category, error) {
	return s.categoryRepository.GetCategories(ctx)
}

func (s *EquipmentService) CreateCategory(ctx context.Context, actor entities.Actor, data dto.CreateCategoryDTO) (*entities.Category, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("only staff can add categories")
	}
	category := &entities.Category{Name: data.Name, Description: data.Description}
	id, err := s.categoryRepository.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.categoryRepository.FindCategory(ctx, id)
}
