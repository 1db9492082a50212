package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/repositories"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/eventbus"
	"equipment-portal/pkg/types"
)

var (
	admin      = entities.Actor{UserID: 1, Role: constants.RoleAdmin}
	handler    = entities.Actor{UserID: 2, Role: constants.RoleHandler}
	technician = entities.Actor{UserID: 7, Role: constants.RoleTechnician}
	otherTech  = entities.Actor{UserID: 8, Role: constants.RoleTechnician}
	reporter   = entities.Actor{UserID: 20, Role: constants.RoleUser}
	student    = entities.Actor{UserID: 21, Role: constants.RoleUser}
)

type fixture struct {
	store         *store.Store
	bus           *eventbus.Bus
	equipment     repositories.EquipmentRepositoryInterface
	reports       repositories.DefectReportRepositoryInterface
	reservations  repositories.ReservationRepositoryInterface
	notifications repositories.NotificationRepositoryInterface

	notificationService NotificationServiceInterface
	defectService       DefectWorkflowServiceInterface
	reservationService  ReservationServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith builds the services on a memory store. A non-nil notifRepo
// replaces the store-backed notification repository.
func newFixtureWith(t *testing.T, notifRepo repositories.NotificationRepositoryInterface) *fixture {
	t.Helper()
	clock := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	s := store.New(store.NewMemoryBackend(), store.WithClock(func() time.Time { return clock }))
	logger := zap.NewNop()
	bus := eventbus.New(logger)

	f := &fixture{
		store:         s,
		bus:           bus,
		equipment:     repositories.NewEquipmentRepository(s),
		reports:       repositories.NewDefectReportRepository(s),
		reservations:  repositories.NewReservationRepository(s),
		notifications: repositories.NewNotificationRepository(s),
	}
	if notifRepo == nil {
		notifRepo = f.notifications
	}
	f.notificationService = NewNotificationService(notifRepo, s, bus, logger)
	f.defectService = NewDefectWorkflowService(f.reports, f.equipment, f.notificationService,
		NewRosterDirectory(nil), s, bus, logger)
	f.reservationService = NewReservationService(f.reservations, f.equipment, f.notificationService, s, bus, logger)

	f.addEquipment(t, "EQ-1", 2, constants.EquipmentStatusAvailable)
	t.Cleanup(bus.Wait)
	return f
}

func (f *fixture) addEquipment(t *testing.T, id string, quantity int, status string) {
	t.Helper()
	_, err := f.equipment.CreateEquipment(context.Background(), &entities.Equipment{
		ID:         id,
		Name:       "Projector " + id,
		CategoryID: "CAT-AV",
		Quantity:   quantity,
		Status:     status,
		Location:   "Room 101",
	})
	require.NoError(t, err)
}

func (f *fixture) allNotifications(t *testing.T) []entities.Notification {
	t.Helper()
	list, _, err := f.notifications.GetNotifications(context.Background(), nil, types.Filter{})
	require.NoError(t, err)
	return list
}

func notificationTypes(list []entities.Notification) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}
