package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	clock := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	s := store.New(store.NewMemoryBackend(), store.WithClock(func() time.Time { return clock }))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func uid(v uint64) *uint64 { return &v }

func TestEquipmentRepository_FiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewEquipmentRepository(newTestStore(t))

	for _, e := range []entities.Equipment{
		{ID: "EQ-1", Name: "Epson projector", CategoryID: "CAT-AV", Quantity: 2, Status: constants.EquipmentStatusAvailable, Location: "Room 101"},
		{ID: "EQ-2", Name: "Sony camera", CategoryID: "CAT-AV", Quantity: 1, Status: constants.EquipmentStatusMaintenance, Location: "Studio"},
		{ID: "EQ-3", Name: "Oscilloscope", CategoryID: "CAT-LAB", Quantity: 4, Status: constants.EquipmentStatusAvailable, Location: "Lab 3"},
		{ID: "EQ-4", Name: "Old projector", CategoryID: "CAT-AV", Quantity: 1, Status: constants.EquipmentStatusRetired, Location: "Basement"},
	} {
		item := e
		id, err := repo.CreateEquipment(ctx, &item)
		require.NoError(t, err)
		assert.Equal(t, e.ID, id)
	}

	list, total, err := repo.GetEquipments(ctx, types.Filter{Filter: map[string]string{"category_id": "CAT-AV"}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 3)

	_, total, err = repo.GetEquipments(ctx, types.Filter{Filter: map[string]string{
		"status": constants.EquipmentStatusAvailable + "," + constants.EquipmentStatusMaintenance,
	}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, total, err = repo.GetEquipments(ctx, types.Filter{Search: "PROJECTOR"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	list, _, err = repo.GetEquipments(ctx, types.Filter{Search: "lab"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "EQ-3", list[0].ID, "search also matches location")

	list, total, err = repo.GetEquipments(ctx, types.Filter{WithPagination: true, Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total, "total counts every match, not the page")
	require.Len(t, list, 1)
	assert.Equal(t, "EQ-4", list[0].ID)

	err = repo.UpdateEquipment(ctx, "EQ-2", store.Record{"status": constants.EquipmentStatusAvailable})
	require.NoError(t, err)
	found, err := repo.FindEquipment(ctx, "EQ-2")
	require.NoError(t, err)
	assert.Equal(t, constants.EquipmentStatusAvailable, found.Status)
	assert.Equal(t, "Studio", found.Location)

	_, err = repo.CreateEquipment(ctx, &entities.Equipment{ID: "EQ-1", Name: "dup"})
	assert.Error(t, err)
}

func TestDefectReportRepository_FiltersByPeople(t *testing.T) {
	ctx := context.Background()
	repo := NewDefectReportRepository(newTestStore(t))

	reports := []entities.DefectReport{
		{EquipmentID: "EQ-1", ReporterID: 20, Status: constants.DefectStatusReported},
		{EquipmentID: "EQ-1", ReporterID: 21, Status: constants.DefectStatusAssigned, AssignedTo: uid(7)},
		{EquipmentID: "EQ-2", ReporterID: 20, Status: constants.DefectStatusInProgress, AssignedTo: uid(8)},
	}
	ids := make([]string, 0, len(reports))
	for i := range reports {
		id, err := repo.CreateDefectReport(ctx, &reports[i])
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])

	_, total, err := repo.GetDefectReports(ctx, types.Filter{Filter: map[string]string{"reporter_id": "20"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	list, total, err := repo.GetDefectReports(ctx, types.Filter{Filter: map[string]string{"assigned_to": "7,8"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, r := range list {
		assert.NotNil(t, r.AssignedTo)
	}

	_, total, err = repo.GetDefectReports(ctx, types.Filter{Filter: map[string]string{"equipment_id": "EQ-1", "status": constants.DefectStatusReported}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestDefectReportRepository_TransitionWritesOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	repo := NewDefectReportRepository(newTestStore(t))

	id, err := repo.CreateDefectReport(ctx, &entities.DefectReport{EquipmentID: "EQ-1", ReporterID: 20, Status: constants.DefectStatusReported})
	require.NoError(t, err)

	refused := errors.New("refused")
	_, err = repo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		r.Status = constants.DefectStatusVerified
		return refused
	})
	assert.ErrorIs(t, err, refused)

	current, err := repo.FindDefectReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.DefectStatusReported, current.Status)

	updated, err := repo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		r.Status = constants.DefectStatusAssigned
		r.AssignedTo = uid(7)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, constants.DefectStatusAssigned, updated.Status)
	assert.True(t, updated.IsAssignedTo(7))
}

func TestTransitions_PersistClearedFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	reports := NewDefectReportRepository(s)
	reservations := NewReservationRepository(s)

	reportID, err := reports.CreateDefectReport(ctx, &entities.DefectReport{
		EquipmentID:         "EQ-1",
		ReporterID:          20,
		Status:              constants.DefectStatusVerified,
		HandlerInstructions: "check the ballast",
		TechnicianNotes:     "replaced ballast",
		VerificationNotes:   "looks good",
		VerifiedBy:          uid(1),
	})
	require.NoError(t, err)

	_, err = reports.TransitionDefectReport(ctx, reportID, func(r *entities.DefectReport) error {
		r.Status = constants.DefectStatusInProgress
		r.HandlerInstructions = ""
		r.TechnicianNotes = ""
		r.VerificationNotes = ""
		r.VerifiedBy = nil
		return nil
	})
	require.NoError(t, err)

	report, err := reports.FindDefectReport(ctx, reportID)
	require.NoError(t, err)
	assert.Empty(t, report.HandlerInstructions)
	assert.Empty(t, report.TechnicianNotes)
	assert.Empty(t, report.VerificationNotes)
	assert.Nil(t, report.VerifiedBy)

	cancelledAt := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)
	resID, err := reservations.CreateReservation(ctx, &entities.Reservation{
		UserID:      20,
		EquipmentID: "EQ-1",
		Quantity:    1,
		StartDate:   types.MustParseDate("2026-03-01"),
		EndDate:     types.MustParseDate("2026-03-02"),
		Status:      constants.ReservationStatusCancelled,
		AdminNotes:  "bring the adapter",
		SoftDelete:  types.SoftDelete{DeletedAt: &cancelledAt},
	}, nil)
	require.NoError(t, err)

	_, err = reservations.TransitionReservation(ctx, resID, func(r *entities.Reservation, _ []entities.Reservation) error {
		r.Status = constants.ReservationStatusApproved
		r.AdminNotes = ""
		r.DeletedAt = nil
		return nil
	})
	require.NoError(t, err)

	res, err := reservations.FindReservation(ctx, resID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusApproved, res.Status)
	assert.Nil(t, res.DeletedAt)
	assert.False(t, res.IsDeleted())
	assert.Empty(t, res.AdminNotes)
}

func TestRepositories_UndecodableRecordIsStoreError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewDefectReportRepository(s)

	id, err := s.Insert(ctx, constants.CollectionDefectReports, store.Record{"status": 42})
	require.NoError(t, err)

	_, err = repo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error { return nil })
	var storeErr *apperrors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "decode", storeErr.Op)
	assert.Equal(t, constants.CollectionDefectReports, storeErr.Collection)
	assert.Equal(t, apperrors.KindInfrastructure, apperrors.KindOf(err))

	_, err = repo.FindDefectReport(ctx, id)
	require.ErrorAs(t, err, &storeErr)
}

func TestReservationRepository_GuardAndScopes(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository(newTestStore(t))

	create := func(userID uint64, equipmentID, start, end string) (string, error) {
		return repo.CreateReservation(ctx, &entities.Reservation{
			UserID:      userID,
			EquipmentID: equipmentID,
			Quantity:    1,
			StartDate:   types.MustParseDate(start),
			EndDate:     types.MustParseDate(end),
			Status:      constants.ReservationStatusPending,
		}, func(existing []entities.Reservation) error {
			for _, r := range existing {
				if r.EquipmentID == equipmentID && !r.EndDate.Before(types.MustParseDate(start)) && !r.StartDate.After(types.MustParseDate(end)) {
					return errors.New("overlap")
				}
			}
			return nil
		})
	}

	first, err := create(20, "EQ-1", "2026-03-01", "2026-03-03")
	require.NoError(t, err)
	_, err = create(21, "EQ-1", "2026-03-03", "2026-03-04")
	assert.EqualError(t, err, "overlap")
	_, err = create(21, "EQ-2", "2026-03-03", "2026-03-04")
	require.NoError(t, err)

	byEquipment, err := repo.ListByEquipment(ctx, "EQ-1")
	require.NoError(t, err)
	require.Len(t, byEquipment, 1)
	assert.Equal(t, first, byEquipment[0].ID)
	assert.Equal(t, "2026-03-01", byEquipment[0].StartDate.String())

	_, total, err := repo.GetReservations(ctx, types.Filter{Filter: map[string]string{"user_id": "21"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, err = repo.TransitionReservation(ctx, first, func(r *entities.Reservation, others []entities.Reservation) error {
		assert.Len(t, others, 1)
		r.Status = constants.ReservationStatusApproved
		return nil
	})
	require.NoError(t, err)

	_, total, err = repo.GetReservations(ctx, types.Filter{Filter: map[string]string{"status": constants.ReservationStatusApproved}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestNotificationRepository_VisibilityAndReadState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewNotificationRepository(s)

	for _, n := range []entities.Notification{
		{UserID: uid(20), Message: "first", Type: constants.NotificationTaskAssigned},
		{UserID: nil, Message: "everyone", Type: constants.NotificationTaskClaimed},
		{UserID: uid(21), Message: "other", Type: constants.NotificationTaskAssigned},
		{UserID: uid(20), Message: "latest", Type: constants.NotificationTaskVerified},
	} {
		item := n
		_, err := repo.CreateNotification(ctx, &item, nil)
		require.NoError(t, err)
	}

	mine, total, err := repo.GetNotifications(ctx, uid(20), types.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, mine, 3)
	assert.Equal(t, "latest", mine[0].Message, "newest first")
	assert.Equal(t, "first", mine[2].Message)

	_, total, err = repo.GetNotifications(ctx, nil, types.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	updated, err := repo.MarkAllRead(ctx, 20, s.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	_, unread, err := repo.GetNotifications(ctx, uid(21), types.Filter{Filter: map[string]string{"is_read": "false"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "broadcast read state is shared")

	_, total, err = repo.GetNotifications(ctx, uid(20), types.Filter{Filter: map[string]string{
		"is_read": "true",
		"type":    constants.NotificationTaskAssigned,
	}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
