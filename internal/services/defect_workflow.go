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

const entityDefectReport = "defect_report"

type DefectWorkflowServiceInterface interface {
	SubmitDefectReport(ctx context.Context, actor entities.Actor, data dto.CreateDefectReportDTO) (*entities.DefectReport, error)
	AssignTechnician(ctx context.Context, actor entities.Actor, id string, data dto.AssignTechnicianDTO) (*entities.DefectReport, error)
	ClaimTask(ctx context.Context, actor entities.Actor, id string) (*entities.DefectReport, error)
	StartWork(ctx context.Context, actor entities.Actor, id string) (*entities.DefectReport, error)
	CompleteWork(ctx context.Context, actor entities.Actor, id string, data dto.CompleteWorkDTO) (*entities.DefectReport, error)
	VerifyWork(ctx context.Context, actor entities.Actor, id string, data dto.VerifyWorkDTO) (*entities.DefectReport, error)
	RejectWork(ctx context.Context, actor entities.Actor, id string, data dto.RejectWorkDTO) (*entities.DefectReport, error)
	FindDefectReport(ctx context.Context, id string) (*entities.DefectReport, error)
	GetDefectReports(ctx context.Context, filter types.Filter) ([]entities.DefectReport, uint64, error)
}

type DefectWorkflowService struct {
	BaseService
	reportRepo    repositories.DefectReportRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	notifications NotificationServiceInterface
	technicians   TechnicianDirectory
}

func NewDefectWorkflowService(
	reportRepo repositories.DefectReportRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	notifications NotificationServiceInterface,
	technicians TechnicianDirectory,
	clock Clock,
	events EventPublisher,
	logger *zap.Logger,
) DefectWorkflowServiceInterface {
	return &DefectWorkflowService{
		BaseService:   NewBaseService(clock, events, logger),
		reportRepo:    reportRepo,
		equipmentRepo: equipmentRepo,
		notifications: notifications,
		technicians:   technicians,
	}
}

func (s *DefectWorkflowService) SubmitDefectReport(ctx context.Context, actor entities.Actor, data dto.CreateDefectReportDTO) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "submit", data.EquipmentID, actor, err) }()

	if actor.UserID == 0 {
		return nil, apperrors.NewUnauthorizedError("a defect report needs a known reporter")
	}
	if strings.TrimSpace(data.IssueDescription) == "" {
		return nil, apperrors.NewInvalidInputError("issue description is required")
	}
	priority := constants.PriorityMedium
	if data.Priority.Valid {
		if !constants.Contains(constants.DefectPriorities, data.Priority.String) {
			return nil, apperrors.NewInvalidInputError("unknown priority %q", data.Priority.String)
		}
		priority = data.Priority.String
	}
	if _, err := s.equipmentRepo.FindEquipment(ctx, data.EquipmentID); err != nil {
		return nil, err
	}

	report = &entities.DefectReport{
		EquipmentID:      data.EquipmentID,
		ReporterID:       actor.UserID,
		IssueDescription: strings.TrimSpace(data.IssueDescription),
		Priority:         priority,
	}
	stampDefectStatus(report, constants.DefectStatusReported, actor, s.now(), "")

	id, err := s.reportRepo.CreateDefectReport(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id
	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	return report, nil
}

func (s *DefectWorkflowService) AssignTechnician(ctx context.Context, actor entities.Actor, id string, data dto.AssignTechnicianDTO) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "assign", id, actor, err) }()

	if err := s.requireAdmin(actor, "assigning a technician"); err != nil {
		return nil, err
	}
	if !s.technicians.IsAvailable(ctx, data.TechnicianID) {
		return nil, apperrors.NewInvalidInputError("user %d is not an available technician", data.TechnicianID)
	}
	if data.Priority.Valid && !constants.Contains(constants.DefectPriorities, data.Priority.String) {
		return nil, apperrors.NewInvalidInputError("unknown priority %q", data.Priority.String)
	}

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireUnassigned(r); err != nil {
			return err
		}
		technician, assigner := data.TechnicianID, actor.UserID
		r.AssignedTo = &technician
		r.AssignedBy = &assigner
		if data.Priority.Valid {
			r.Priority = data.Priority.String
		}
		r.HandlerInstructions = data.Instructions
		stampDefectStatus(r, constants.DefectStatusAssigned, actor, s.now(), data.Instructions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	s.notifications.Notify(ctx, report.AssignedTo,
		fmt.Sprintf("You have been assigned defect report %s (priority %s).", report.ID, report.Priority),
		constants.NotificationTaskAssigned, report.ID)
	return report, nil
}

func (s *DefectWorkflowService) ClaimTask(ctx context.Context, actor entities.Actor, id string) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "claim", id, actor, err) }()

	if !actor.IsTechnician() {
		return nil, apperrors.NewUnauthorizedError("only technicians can claim tasks, got role %q", actor.Role)
	}

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireUnassigned(r); err != nil {
			return err
		}
		technician := actor.UserID
		r.AssignedTo = &technician
		r.AssignedBy = nil
		stampDefectStatus(r, constants.DefectStatusAssigned, actor, s.now(), "claimed")
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	s.notifications.Notify(ctx, report.AssignedTo,
		fmt.Sprintf("You claimed defect report %s.", report.ID),
		constants.NotificationTaskClaimed, report.ID)
	return report, nil
}

func (s *DefectWorkflowService) StartWork(ctx context.Context, actor entities.Actor, id string) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "start", id, actor, err) }()

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireDefectStatus(r, constants.DefectStatusAssigned, "start work on"); err != nil {
			return err
		}
		if err := requireAssignee(r, actor); err != nil {
			return err
		}
		stampDefectStatus(r, constants.DefectStatusInProgress, actor, s.now(), "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	return report, nil
}

func (s *DefectWorkflowService) CompleteWork(ctx context.Context, actor entities.Actor, id string, data dto.CompleteWorkDTO) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "complete", id, actor, err) }()

	if strings.TrimSpace(data.WorkPerformed) == "" {
		return nil, apperrors.NewInvalidInputError("work performed is required")
	}
	if data.RepairCost.Valid && data.RepairCost.Float64 < 0 {
		return nil, apperrors.NewInvalidInputError("repair cost cannot be negative")
	}

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireDefectStatus(r, constants.DefectStatusInProgress, "complete"); err != nil {
			return err
		}
		if err := requireAssignee(r, actor); err != nil {
			return err
		}
		r.WorkPerformed = data.WorkPerformed
		r.PartsReplaced = data.PartsReplaced
		if data.RepairCost.Valid {
			cost := data.RepairCost.Float64
			r.RepairCost = &cost
		}
		if len(data.CompletionPhotos) > 0 {
			r.CompletionPhotos = append(r.CompletionPhotos, data.CompletionPhotos...)
		}
		if data.TechnicianNotes != "" {
			r.TechnicianNotes = appendNote(r.TechnicianNotes, data.TechnicianNotes)
		}
		stampDefectStatus(r, constants.DefectStatusCompleted, actor, s.now(), "")
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	if report.AssignedBy != nil {
		s.notifications.Notify(ctx, report.AssignedBy,
			fmt.Sprintf("Defect report %s has been completed and awaits verification.", report.ID),
			constants.NotificationTaskCompleted, report.ID)
	}
	reporter := report.ReporterID
	s.notifications.Notify(ctx, &reporter,
		fmt.Sprintf("The defect you reported (%s) has been repaired.", report.ID),
		constants.NotificationReportResolved, report.ID)
	return report, nil
}

func (s *DefectWorkflowService) VerifyWork(ctx context.Context, actor entities.Actor, id string, data dto.VerifyWorkDTO) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "verify", id, actor, err) }()

	if err := s.requireAdmin(actor, "verifying work"); err != nil {
		return nil, err
	}

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireDefectStatus(r, constants.DefectStatusCompleted, "verify"); err != nil {
			return err
		}
		verifier := actor.UserID
		r.VerifiedBy = &verifier
		r.VerificationNotes = data.Notes
		stampDefectStatus(r, constants.DefectStatusVerified, actor, s.now(), data.Notes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	s.notifications.Notify(ctx, report.AssignedTo,
		fmt.Sprintf("Your work on defect report %s has been verified.", report.ID),
		constants.NotificationTaskVerified, report.ID)
	return report, nil
}

func (s *DefectWorkflowService) RejectWork(ctx context.Context, actor entities.Actor, id string, data dto.RejectWorkDTO) (report *entities.DefectReport, err error) {
	defer func() { s.observe(entityDefectReport, "reject", id, actor, err) }()

	if err := s.requireAdmin(actor, "rejecting work"); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(data.Reason)
	if reason == "" {
		return nil, apperrors.NewInvalidInputError("a rejection reason is required")
	}

	report, err = s.reportRepo.TransitionDefectReport(ctx, id, func(r *entities.DefectReport) error {
		if err := requireDefectStatus(r, constants.DefectStatusCompleted, "reject"); err != nil {
			return err
		}
		now := s.now()
		rejecter := actor.UserID
		r.TechnicianNotes = appendNote(r.TechnicianNotes,
			fmt.Sprintf("[rejected %s by %d] %s", now.Format(types.DateLayout), rejecter, reason))
		r.RejectionReason = &reason
		r.RejectedBy = &rejecter
		r.RejectedDate = &now
		r.VerificationDate = nil
		r.VerifiedBy = nil
		r.VerificationNotes = ""
		stampDefectStatus(r, constants.DefectStatusInProgress, actor, now, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, entityDefectReport, id, lastChange(report.StatusHistory))
	s.notifications.Notify(ctx, report.AssignedTo,
		fmt.Sprintf("Your work on defect report %s was rejected: %s", report.ID, reason),
		constants.NotificationTaskRejected, report.ID)
	return report, nil
}

func (s *DefectWorkflowService) FindDefectReport(ctx context.Context, id string) (*entities.DefectReport, error) {
	return s.reportRepo.FindDefectReport(ctx, id)
}

func (s *DefectWorkflowService) GetDefectReports(ctx context.Context, filter types.Filter) ([]entities.DefectReport, uint64, error) {
	return s.reportRepo.GetDefectReports(ctx, filter)
}

// requireUnassigned guards both assignment paths. Losing to another claim or
// assignment is a Conflict, any other status is an invalid transition.
func requireUnassigned(r *entities.DefectReport) error {
	if r.AssignedTo != nil && r.Status == constants.DefectStatusAssigned {
		return apperrors.NewConflictError("defect report %s was already taken by technician %d", r.ID, *r.AssignedTo)
	}
	if r.Status != constants.DefectStatusReported {
		return apperrors.NewInvalidTransitionError("defect report %s is %s, only reported reports can be assigned", r.ID, r.Status)
	}
	if r.AssignedTo != nil {
		return apperrors.NewConflictError("defect report %s already has an assignee", r.ID)
	}
	return nil
}

func requireDefectStatus(r *entities.DefectReport, want, action string) error {
	if r.Status != want {
		return apperrors.NewInvalidTransitionError("cannot %s defect report %s: status is %s, expected %s", action, r.ID, r.Status, want)
	}
	return nil
}

func requireAssignee(r *entities.DefectReport, actor entities.Actor) error {
	if !r.IsAssignedTo(actor.UserID) {
		return apperrors.NewUnauthorizedError("defect report %s is not assigned to user %d", r.ID, actor.UserID)
	}
	return nil
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
