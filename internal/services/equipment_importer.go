package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

// ImportRowError describes one spreadsheet row that could not be applied.
type ImportRowError struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type EquipmentImportResult struct {
	Created           int              `json:"created"`
	Updated           int              `json:"updated"`
	CategoriesCreated int              `json:"categories_created"`
	Failed            []ImportRowError `json:"failed"`
}

type EquipmentImporterInterface interface {
	Import(ctx context.Context, actor entities.Actor, r io.Reader) (*EquipmentImportResult, error)
}

// EquipmentImportService loads inventory from an .xlsx workbook. Rows are
// matched to existing equipment by name; matches are updated, the rest created.
type EquipmentImportService struct {
	equipment EquipmentServiceInterface
	logger    *zap.Logger
}

func NewEquipmentImportService(equipment EquipmentServiceInterface, logger *zap.Logger) EquipmentImporterInterface {
	return &EquipmentImportService{equipment: equipment, logger: logger}
}

type importColumns struct {
	name, category, quantity, location, description, status int
}

func (s *EquipmentImportService) Import(ctx context.Context, actor entities.Actor, r io.Reader) (*EquipmentImportResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("equipment import requires an admin or handler, got role %q", actor.Role)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("not a readable .xlsx workbook: %v", err)
	}
	defer f.Close()

	rows, headerRow, cols, err := findImportHeader(f)
	if err != nil {
		return nil, err
	}

	categories, err := s.equipment.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryIDs[normalizeName(c.Name)] = c.ID
	}

	existing, _, err := s.equipment.GetEquipments(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}
	equipmentIDs := make(map[string]string, len(existing))
	for _, e := range existing {
		equipmentIDs[normalizeName(e.Name)] = e.ID
	}

	result := &EquipmentImportResult{Failed: []ImportRowError{}}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, cols.name)
		if name == "" || isSummaryRow(name) {
			continue
		}
		lineNum := i + 1

		fail := func(err error) {
			result.Failed = append(result.Failed, ImportRowError{Row: lineNum, Name: name, Error: err.Error()})
			s.logger.Warn("import row skipped", zap.Int("row", lineNum), zap.String("name", name), zap.Error(err))
		}

		categoryName := cell(row, cols.category)
		categoryID, ok := categoryIDs[normalizeName(categoryName)]
		if !ok && categoryName != "" {
			created, err := s.equipment.CreateCategory(ctx, actor, dto.CreateCategoryDTO{Name: categoryName})
			if err != nil {
				fail(err)
				continue
			}
			categoryID = created.ID
			categoryIDs[normalizeName(categoryName)] = categoryID
			result.CategoriesCreated++
		}

		quantity := 0
		if raw := cell(row, cols.quantity); raw != "" {
			q, err := strconv.Atoi(raw)
			if err != nil || q < 1 {
				fail(fmt.Errorf("quantity %q is not a positive whole number", raw))
				continue
			}
			quantity = q
		}

		location := cell(row, cols.location)
		description := cell(row, cols.description)
		status := strings.ToLower(cell(row, cols.status))

		if id, found := equipmentIDs[normalizeName(name)]; found {
			update := dto.UpdateEquipmentDTO{}
			if categoryID != "" {
				update.CategoryID = null.StringFrom(categoryID)
			}
			if quantity > 0 {
				update.Quantity = null.IntFrom(quantity)
			}
			if location != "" {
				update.Location = null.StringFrom(location)
			}
			if description != "" {
				update.Description = null.StringFrom(description)
			}
			if status != "" {
				update.Status = null.StringFrom(status)
			}
			if _, err := s.equipment.UpdateEquipment(ctx, actor, id, update); err != nil {
				fail(err)
				continue
			}
			result.Updated++
			continue
		}

		if categoryID == "" {
			fail(fmt.Errorf("category is required for new equipment"))
			continue
		}
		if quantity == 0 {
			quantity = 1
		}
		if location == "" {
			location = "-"
		}
		created, err := s.equipment.CreateEquipment(ctx, actor, dto.CreateEquipmentDTO{
			Name:        name,
			CategoryID:  categoryID,
			Quantity:    quantity,
			Status:      status,
			Location:    location,
			Description: description,
		})
		if err != nil {
			fail(err)
			continue
		}
		equipmentIDs[normalizeName(name)] = created.ID
		result.Created++
	}

	s.logger.Info("equipment import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("categories_created", result.CategoriesCreated),
		zap.Int("failed", len(result.Failed)),
		zap.Uint64("actor_id", actor.UserID),
	)
	return result, nil
}

// findImportHeader returns the rows of the first sheet that has a header row
// naming at least a "name" and a "category" or "quantity" column.
func findImportHeader(f *excelize.File) ([][]string, int, importColumns, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, 0, importColumns{}, apperrors.NewInvalidInputError("read sheet %q: %v", sheet, err)
		}
		for rIdx, row := range rows {
			cols := importColumns{name: -1, category: -1, quantity: -1, location: -1, description: -1, status: -1}
			for cIdx, title := range row {
				switch t := strings.ToLower(strings.TrimSpace(title)); {
				case t == "name" || t == "equipment" || t == "item":
					cols.name = cIdx
				case strings.Contains(t, "category"):
					cols.category = cIdx
				case strings.Contains(t, "quantity") || t == "qty":
					cols.quantity = cIdx
				case strings.Contains(t, "location") || strings.Contains(t, "room"):
					cols.location = cIdx
				case strings.Contains(t, "description") || strings.Contains(t, "notes"):
					cols.description = cIdx
				case t == "status":
					cols.status = cIdx
				}
			}
			if cols.name != -1 && (cols.category != -1 || cols.quantity != -1) {
				return rows, rIdx, cols, nil
			}
		}
	}
	return nil, 0, importColumns{}, apperrors.NewInvalidInputError("no header row with a name and a category or quantity column")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isSummaryRow(name string) bool {
	v := strings.ToLower(name)
	return strings.HasPrefix(v, "total") || strings.HasPrefix(v, "subtotal")
}
