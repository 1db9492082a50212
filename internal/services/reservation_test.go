package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

func request(ctx context.Context, f *fixture, actor entities.Actor, quantity int, start, end string) (*entities.Reservation, error) {
	return f.reservationService.RequestReservation(ctx, actor, dto.CreateReservationDTO{
		EquipmentID: "EQ-1",
		Quantity:    quantity,
		StartDate:   start,
		EndDate:     end,
		Purpose:     "Lecture",
	})
}

func TestReservation_BoundaryConflictScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := request(ctx, f, reporter, 2, "2026-03-01", "2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusPending, first.Status)
	assert.NotNil(t, first.RequestDate)

	first, err = f.reservationService.ApproveReservation(ctx, admin, first.ID, dto.ApproveReservationDTO{AdminNotes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusApproved, first.Status)
	require.NotNil(t, first.ApprovedBy)
	assert.Equal(t, admin.UserID, *first.ApprovedBy)
	assert.NotNil(t, first.ApprovalDate)
	assert.Equal(t, "ok", first.AdminNotes)

	_, err = request(ctx, f, student, 1, "2026-03-03", "2026-03-05")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	all, total, err := f.reservationService.GetReservations(ctx, types.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "a conflicting request creates nothing")
	assert.Len(t, all, 1)

	cancelled, err := f.reservationService.CancelReservation(ctx, reporter, first.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.DeletedAt)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, reporter.UserID, *cancelled.CancelledBy)

	third, err := request(ctx, f, student, 1, "2026-03-04", "2026-03-06")
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusPending, third.Status)

	_, err = request(ctx, f, student, 1, "2026-03-02", "2026-03-03")
	assert.NoError(t, err, "the cancelled reservation no longer blocks its dates")

	_, err = request(ctx, f, student, 1, "2026-03-06", "2026-03-06")
	assert.ErrorIs(t, err, apperrors.ErrConflict, "a pending request already blocks its range")

	notes, _, err := f.notificationService.GetNotifications(ctx, reporter, types.Filter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotificationReservationApproved, notes[0].Type)
	assert.Equal(t, first.ID, notes[0].RelatedID)
}

func TestReservation_NonOverlappingRangesBothSucceed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := request(ctx, f, reporter, 1, "2026-05-01", "2026-05-02")
	require.NoError(t, err)
	_, err = request(ctx, f, student, 1, "2026-05-03", "2026-05-03")
	require.NoError(t, err)

	available, err := f.reservationService.CheckAvailability(ctx, "EQ-1", "2026-05-02", "2026-05-02")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = f.reservationService.CheckAvailability(ctx, "EQ-1", "2026-05-04", "2026-05-09")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestReservation_RequestValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addEquipment(t, "EQ-OLD", 5, constants.EquipmentStatusRetired)

	_, err := request(ctx, f, reporter, 1, "2026-03-05", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = request(ctx, f, reporter, 0, "2026-03-01", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = request(ctx, f, reporter, 3, "2026-03-01", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = request(ctx, f, reporter, 1, "03/01/2026", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.reservationService.RequestReservation(ctx, reporter, dto.CreateReservationDTO{
		EquipmentID: "EQ-OLD", Quantity: 1, StartDate: "2026-03-01", EndDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.reservationService.RequestReservation(ctx, reporter, dto.CreateReservationDTO{
		EquipmentID: "EQ-404", Quantity: 1, StartDate: "2026-03-01", EndDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, total, err := f.reservationService.GetReservations(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReservation_GuardedTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := request(ctx, f, reporter, 1, "2026-06-01", "2026-06-02")
	require.NoError(t, err)

	_, err = f.reservationService.ApproveReservation(ctx, student, res.ID, dto.ApproveReservationDTO{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.reservationService.ActivateReservation(ctx, admin, res.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.reservationService.RejectReservation(ctx, admin, res.ID, dto.RejectReservationDTO{Reason: " "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.reservationService.CancelReservation(ctx, student, res.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.reservationService.ApproveReservation(ctx, handler, res.ID, dto.ApproveReservationDTO{})
	require.NoError(t, err)
	_, err = f.reservationService.ApproveReservation(ctx, handler, res.ID, dto.ApproveReservationDTO{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	res, err = f.reservationService.ActivateReservation(ctx, admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusActive, res.Status)
	assert.NotNil(t, res.ActivatedAt)

	res, err = f.reservationService.CompleteReservation(ctx, admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusCompleted, res.Status)
	assert.NotNil(t, res.CompletedAt)

	_, err = f.reservationService.CancelReservation(ctx, admin, res.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.reservationService.CompleteReservation(ctx, admin, "RES-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReservation_RejectNotifiesRequester(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := request(ctx, f, reporter, 1, "2026-07-01", "2026-07-01")
	require.NoError(t, err)

	res, err = f.reservationService.RejectReservation(ctx, admin, res.ID, dto.RejectReservationDTO{Reason: "maintenance week"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusRejected, res.Status)
	require.NotNil(t, res.RejectionReason)
	assert.Equal(t, "maintenance week", *res.RejectionReason)
	assert.NotNil(t, res.RejectionDate)

	notes, _, err := f.notificationService.GetNotifications(ctx, reporter, types.Filter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotificationReservationRejected, notes[0].Type)

	_, err = request(ctx, f, student, 1, "2026-07-01", "2026-07-01")
	assert.NoError(t, err, "rejected reservations do not block")
}

func TestReservation_ForceStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := request(ctx, f, reporter, 1, "2026-08-01", "2026-08-03")
	require.NoError(t, err)

	_, err = f.reservationService.UpdateReservationStatus(ctx, technician, res.ID, dto.UpdateReservationStatusDTO{Status: "active"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "archived"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	res, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "active", Note: "picked up early"})
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusActive, res.Status)
	assert.NotNil(t, res.ActivatedAt, "forced transitions still stamp their timestamp")
	last := res.StatusHistory[len(res.StatusHistory)-1]
	assert.True(t, last.Forced)
	assert.Equal(t, constants.ReservationStatusPending, last.From)
	assert.Equal(t, "picked up early", last.Note)
	assert.Equal(t, admin.UserID, last.ActorID)

	_, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "active"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	res, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "cancelled"})
	require.NoError(t, err)
	assert.NotNil(t, res.DeletedAt)

	blocker, err := request(ctx, f, student, 1, "2026-08-03", "2026-08-04")
	require.NoError(t, err)

	_, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.reservationService.CancelReservation(ctx, student, blocker.ID)
	require.NoError(t, err)

	res, err = f.reservationService.UpdateReservationStatus(ctx, admin, res.ID, dto.UpdateReservationStatusDTO{Status: "approved"})
	require.NoError(t, err)
	assert.Nil(t, res.DeletedAt)
	assert.NotNil(t, res.ApprovalDate)

	stored, err := f.reservationService.FindReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ReservationStatusApproved, stored.Status)
	assert.Nil(t, stored.DeletedAt, "a revived reservation is no longer soft-deleted")
	assert.False(t, stored.IsDeleted())

	notes, _, err := f.notificationService.GetNotifications(ctx, reporter, types.Filter{})
	require.NoError(t, err)
	require.Len(t, notes, 3, "each forced status is reported")
	for _, n := range notes {
		assert.Equal(t, constants.NotificationReservationStatusChanged, n.Type)
	}
	assert.Contains(t, notes[0].Message, "to approved")
	assert.Contains(t, notes[1].Message, "to cancelled")
	assert.Contains(t, notes[2].Message, "to active")
}
