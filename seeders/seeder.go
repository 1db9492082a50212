package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/services"
	"equipment-portal/pkg/types"
)

// Result counts what a seeding run created.
type Result struct {
	Categories int
	Equipment  int
}

// SeedInventory creates the demo categories and equipment through the
// inventory service. Entries whose name already exists are skipped, so the
// run can be repeated.
func SeedInventory(ctx context.Context, svc services.EquipmentServiceInterface, logger *zap.Logger) (Result, error) {
	var result Result
	actor := entities.System()

	categories, err := svc.GetCategories(ctx)
	if err != nil {
		return result, err
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	for _, c := range categoriesData {
		if _, ok := categoryIDs[c.Name]; ok {
			continue
		}
		created, err := svc.CreateCategory(ctx, actor, dto.CreateCategoryDTO{Name: c.Name, Description: c.Description})
		if err != nil {
			return result, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = created.ID
		result.Categories++
	}

	existing, _, err := svc.GetEquipments(ctx, types.Filter{})
	if err != nil {
		return result, err
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.Name] = true
	}

	for _, e := range equipmentsData {
		if known[e.Name] {
			continue
		}
		categoryID, ok := categoryIDs[e.CategoryName]
		if !ok {
			logger.Warn("category not found, skipping equipment", zap.String("category", e.CategoryName), zap.String("equipment", e.Name))
			continue
		}
		if _, err := svc.CreateEquipment(ctx, actor, dto.CreateEquipmentDTO{
			Name:        e.Name,
			CategoryID:  categoryID,
			Quantity:    e.Quantity,
			Location:    e.Location,
			Description: e.Description,
		}); err != nil {
			return result, fmt.Errorf("seed equipment %q: %w", e.Name, err)
		}
		result.Equipment++
	}

	logger.Info("inventory seeded", zap.Int("categories", result.Categories), zap.Int("equipment", result.Equipment))
	return result, nil
}
