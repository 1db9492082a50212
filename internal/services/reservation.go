package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
	"equipment-portal/internal/repositories"
	"equipment-portal/pkg/constants"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/types"
)

const entityReservation = "reservation"

type ReservationServiceInterface interface {
	RequestReservation(ctx context.Context, actor entities.Actor, data dto.CreateReservationDTO) (*entities.Reservation, error)
	ApproveReservation(ctx context.Context, actor entities.Actor, id string, data dto.ApproveReservationDTO) (*entities.Reservation, error)
	RejectReservation(ctx context.Context, actor entities.Actor, id string, data dto.RejectReservationDTO) (*entities.Reservation, error)
	ActivateReservation(ctx context.Context, actor entities.Actor, id string) (*entities.Reservation, error)
	CompleteReservation(ctx context.Context, actor entities.Actor, id string) (*entities.Reservation, error)
	CancelReservation(ctx context.Context, actor entities.Actor, id string) (*entities.Reservation, error)
	// UpdateReservationStatus is the admin force transition. It skips the
	// status preconditions of the guarded transitions but still stamps the
	// audit trail, and refuses to revive a reservation into a date conflict.
	UpdateReservationStatus(ctx context.Context, actor entities.Actor, id string, data dto.UpdateReservationStatusDTO) (*entities.Reservation, error)
	CheckAvailability(ctx context.Context, equipmentID, startDate, endDate string) (bool, error)
	FindReservation(ctx context.Context, id string) (*entities.Reservation, error)
	GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error)
}

type ReservationService struct {
	BaseService
	reservationRepo repositories.ReservationRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	notifications   NotificationServiceInterface
	detector        *ReservationConflictDetector
}

func NewReservationService(
	reservationRepo repositories.ReservationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	notifications NotificationServiceInterface,
	clock Clock,
	events EventPublisher,
	logger *zap.Logger,
) ReservationServiceInterface {
	return &ReservationService{
		BaseService:     NewBaseService(clock, events, logger),
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		notifications:   notifications,
		detector:        NewReservationConflictDetector(reservationRepo),
	}
}

func (s *ReservationService) RequestReservation(ctx context.Context, actor entities.Actor, data dto.CreateReservationDTO) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "request", data.EquipmentID, actor, err) }()

	if actor.UserID == 0 {
		return nil, apperrors.NewUnauthorizedError("a reservation needs a known requester")
	}
	start, end, err := parseRange(data.StartDate, data.EndDate)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepo.FindEquipment(ctx, data.EquipmentID)
	if err != nil {
		return nil, err
	}
	if equipment.Status == constants.EquipmentStatusRetired {
		return nil, apperrors.NewInvalidInputError("equipment %s is retired", equipment.ID)
	}
	if data.Quantity < 1 || data.Quantity > equipment.Quantity {
		return nil, apperrors.NewInvalidInputError("quantity must be between 1 and %d", equipment.Quantity)
	}

	res = &entities.Reservation{
		UserID:      actor.UserID,
		EquipmentID: equipment.ID,
		Quantity:    data.Quantity,
		StartDate:   start,
		EndDate:     end,
		Purpose:     strings.TrimSpace(data.Purpose),
	}
	stampReservationStatus(res, constants.ReservationStatusPending, actor, s.now(), "", false)

	id, err := s.reservationRepo.CreateReservation(ctx, res, func(existing []entities.Reservation) error {
		if c := FindReservationConflict(existing, equipment.ID, start, end, ""); c != nil {
			return apperrors.NewConflictError("equipment %s is already reserved from %s to %s", equipment.ID, c.StartDate, c.EndDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.ID = id
	s.publishStatusChange(ctx, entityReservation, id, lastChange(res.StatusHistory))
	return res, nil
}

func (s *ReservationService) ApproveReservation(ctx context.Context, actor entities.Actor, id string, data dto.ApproveReservationDTO) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "approve", id, actor, err) }()

	if err := s.requireAdmin(actor, "approving a reservation"); err != nil {
		return nil, err
	}
	res, err = s.transition(ctx, id, actor, constants.ReservationStatusPending, constants.ReservationStatusApproved, data.AdminNotes,
		func(r *entities.Reservation) {
			if data.AdminNotes != "" {
				r.AdminNotes = data.AdminNotes
			}
		})
	if err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, res, constants.NotificationReservationApproved,
		fmt.Sprintf("Your reservation %s for %s to %s has been approved.", res.ID, res.StartDate, res.EndDate))
	return res, nil
}

func (s *ReservationService) RejectReservation(ctx context.Context, actor entities.Actor, id string, data dto.RejectReservationDTO) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "reject", id, actor, err) }()

	if err := s.requireAdmin(actor, "rejecting a reservation"); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(data.Reason)
	if reason == "" {
		return nil, apperrors.NewInvalidInputError("a rejection reason is required")
	}
	res, err = s.transition(ctx, id, actor, constants.ReservationStatusPending, constants.ReservationStatusRejected, reason,
		func(r *entities.Reservation) {
			r.RejectionReason = &reason
			if data.AdminNotes != "" {
				r.AdminNotes = data.AdminNotes
			}
		})
	if err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, res, constants.NotificationReservationRejected,
		fmt.Sprintf("Your reservation %s was rejected: %s", res.ID, reason))
	return res, nil
}

func (s *ReservationService) ActivateReservation(ctx context.Context, actor entities.Actor, id string) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "activate", id, actor, err) }()

	if err := s.requireAdmin(actor, "activating a reservation"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, constants.ReservationStatusApproved, constants.ReservationStatusActive, "", nil)
}

func (s *ReservationService) CompleteReservation(ctx context.Context, actor entities.Actor, id string) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "complete", id, actor, err) }()

	if err := s.requireAdmin(actor, "completing a reservation"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, constants.ReservationStatusActive, constants.ReservationStatusCompleted, "equipment returned", nil)
}

func (s *ReservationService) CancelReservation(ctx context.Context, actor entities.Actor, id string) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "cancel", id, actor, err) }()

	res, err = s.reservationRepo.TransitionReservation(ctx, id, func(r *entities.Reservation, _ []entities.Reservation) error {
		if r.UserID != actor.UserID && !actor.IsAdmin() {
			return apperrors.NewUnauthorizedError("reservation %s belongs to another user", r.ID)
		}
		switch r.Status {
		case constants.ReservationStatusPending, constants.ReservationStatusApproved, constants.ReservationStatusActive:
		default:
			return apperrors.NewInvalidTransitionError("reservation %s is %s and can no longer be cancelled", r.ID, r.Status)
		}
		stampReservationStatus(r, constants.ReservationStatusCancelled, actor, s.now(), "", false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, entityReservation, id, lastChange(res.StatusHistory))
	return res, nil
}

func (s *ReservationService) UpdateReservationStatus(ctx context.Context, actor entities.Actor, id string, data dto.UpdateReservationStatusDTO) (res *entities.Reservation, err error) {
	defer func() { s.observe(entityReservation, "force_status", id, actor, err) }()

	if err := s.requireAdmin(actor, "forcing a reservation status"); err != nil {
		return nil, err
	}
	if !constants.Contains(constants.ReservationStatuses, data.Status) {
		return nil, apperrors.NewInvalidInputError("unknown reservation status %q", data.Status)
	}

	res, err = s.reservationRepo.TransitionReservation(ctx, id, func(r *entities.Reservation, others []entities.Reservation) error {
		if r.Status == data.Status {
			return apperrors.NewInvalidTransitionError("reservation %s is already %s", r.ID, r.Status)
		}
		reviving := constants.Contains(constants.NonBlockingReservationStatuses, r.Status) &&
			!constants.Contains(constants.NonBlockingReservationStatuses, data.Status)
		if reviving {
			if c := FindReservationConflict(others, r.EquipmentID, r.StartDate, r.EndDate, r.ID); c != nil {
				return apperrors.NewConflictError("reservation %s overlaps %s (%s to %s)", r.ID, c.ID, c.StartDate, c.EndDate)
			}
		}
		stampReservationStatus(r, data.Status, actor, s.now(), data.Note, true)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityReservation, id, lastChange(res.StatusHistory))
	s.notifyRequester(ctx, res, constants.NotificationReservationStatusChanged,
		fmt.Sprintf("An administrator changed reservation %s to %s.", res.ID, res.Status))
	return res, nil
}

func (s *ReservationService) CheckAvailability(ctx context.Context, equipmentID, startDate, endDate string) (bool, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return false, err
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, equipmentID); err != nil {
		return false, err
	}
	conflict, err := s.detector.HasConflict(ctx, equipmentID, start, end, "")
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *ReservationService) FindReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.reservationRepo.FindReservation(ctx, id)
}

func (s *ReservationService) GetReservations(ctx context.Context, filter types.Filter) ([]entities.Reservation, uint64, error) {
	return s.reservationRepo.GetReservations(ctx, filter)
}

// transition runs a guarded from -> to change. apply may set extra fields and
// only runs once the status precondition holds.
func (s *ReservationService) transition(ctx context.Context, id string, actor entities.Actor, from, to, note string, apply func(r *entities.Reservation)) (*entities.Reservation, error) {
	res, err := s.reservationRepo.TransitionReservation(ctx, id, func(r *entities.Reservation, _ []entities.Reservation) error {
		if r.Status != from {
			return apperrors.NewInvalidTransitionError("reservation %s is %s, expected %s", r.ID, r.Status, from)
		}
		if apply != nil {
			apply(r)
		}
		stampReservationStatus(r, to, actor, s.now(), note, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, entityReservation, id, lastChange(res.StatusHistory))
	return res, nil
}

func (s *ReservationService) notifyRequester(ctx context.Context, res *entities.Reservation, notificationType, message string) {
	requester := res.UserID
	s.notifications.Notify(ctx, &requester, message, notificationType, res.ID)
}

func parseRange(startDate, endDate string) (types.Date, types.Date, error) {
	start, err := types.ParseDate(startDate)
	if err != nil {
		return types.Date{}, types.Date{}, apperrors.NewInvalidInputError("start date: %v", err)
	}
	end, err := types.ParseDate(endDate)
	if err != nil {
		return types.Date{}, types.Date{}, apperrors.NewInvalidInputError("end date: %v", err)
	}
	if end.Before(start) {
		return types.Date{}, types.Date{}, apperrors.NewInvalidInputError("end date %s is before start date %s", end, start)
	}
	return start, end, nil
}
