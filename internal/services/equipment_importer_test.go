package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func newImportServices(t *testing.T) *Services {
	t.Helper()
	clock := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	s := store.New(store.NewMemoryBackend(), store.WithClock(func() time.Time { return clock }))
	return NewServices(s, nil, NewRosterDirectory(nil), zap.NewNop())
}

func TestEquipmentImport_CreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newImportServices(t)

	av, err := svc.Equipment.CreateCategory(ctx, admin, dto.CreateCategoryDTO{Name: "Audio Visual"})
	require.NoError(t, err)
	existing, err := svc.Equipment.CreateEquipment(ctx, admin, dto.CreateEquipmentDTO{
		Name: "Epson Projector", CategoryID: av.ID, Quantity: 1, Location: "Room 101",
	})
	require.NoError(t, err)

	buf := workbook(t, [][]interface{}{
		{"Spring inventory"},
		{"Name", "Category", "Quantity", "Location", "Description", "Status"},
		{"Epson projector", "audio visual", 4, "Room 204", "", ""},
		{"Oscilloscope", "Lab Instruments", 2, "", "Rigol 100MHz", ""},
		{"Soldering station", "Lab Instruments", "two", "Lab 3", "", ""},
		{"Tripod", "", 1, "Store", "", ""},
		{"Total", "", 7, "", "", ""},
	})

	result, err := svc.Importer.Import(ctx, handler, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.CategoriesCreated)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, 5, result.Failed[0].Row)
	assert.Equal(t, "Soldering station", result.Failed[0].Name)
	assert.Equal(t, 6, result.Failed[1].Row)

	updated, err := svc.Equipment.FindEquipment(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "Room 204", updated.Location)
	assert.Equal(t, "Epson Projector", updated.Name, "matching by name keeps the stored spelling")

	all, total, err := svc.Equipment.GetEquipments(ctx, types.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	var scope *entities.Equipment
	for i := range all {
		if all[i].Name == "Oscilloscope" {
			scope = &all[i]
		}
	}
	require.NotNil(t, scope)
	assert.Equal(t, 2, scope.Quantity)
	assert.Equal(t, "-", scope.Location)
	assert.Equal(t, constants.EquipmentStatusAvailable, scope.Status)

	again, err := svc.Importer.Import(ctx, handler, workbook(t, [][]interface{}{
		{"Name", "Category", "Quantity"},
		{"Oscilloscope", "Lab Instruments", 3},
	}))
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 1, again.Updated)
	assert.Zero(t, again.CategoriesCreated)
}

func TestEquipmentImport_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newImportServices(t)

	_, err := svc.Importer.Import(ctx, student, workbook(t, [][]interface{}{{"Name", "Quantity"}}))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Importer.Import(ctx, admin, bytes.NewBufferString("name,quantity\nx,1\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Importer.Import(ctx, admin, workbook(t, [][]interface{}{{"Serial", "Owner"}, {"123", "x"}}))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
