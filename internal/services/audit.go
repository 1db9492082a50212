package services

import (
	"time"

	"equipment-portal/internal/entities"
	"equipment-portal/pkg/constants"
)

// Every status change goes through one of the two stamp functions below. They
// set the timestamp owned by the target status and append the audit entry,
// whether the change came from a guarded transition or a forced one.

func stampDefectStatus(report *entities.DefectReport, to string, actor entities.Actor, at time.Time, note string) {
	ts := at
	switch to {
	case constants.DefectStatusReported:
		report.ReportDate = &ts
	case constants.DefectStatusAssigned:
		report.AssignedDate = &ts
	case constants.DefectStatusInProgress:
		report.StartedDate = &ts
	case constants.DefectStatusCompleted:
		report.CompletionDate = &ts
	case constants.DefectStatusVerified:
		report.VerificationDate = &ts
	}
	report.StatusHistory = append(report.StatusHistory, entities.StatusChange{
		From:    report.Status,
		To:      to,
		ActorID: actor.UserID,
		At:      ts,
		Note:    note,
	})
	report.Status = to
}

func stampReservationStatus(res *entities.Reservation, to string, actor entities.Actor, at time.Time, note string, forced bool) {
	ts := at
	by := actor.UserID
	switch to {
	case constants.ReservationStatusPending:
		res.RequestDate = &ts
	case constants.ReservationStatusApproved:
		res.ApprovalDate = &ts
		res.ApprovedBy = &by
	case constants.ReservationStatusRejected:
		res.RejectionDate = &ts
		res.RejectedBy = &by
	case constants.ReservationStatusActive:
		res.ActivatedAt = &ts
	case constants.ReservationStatusCompleted:
		res.CompletedAt = &ts
	case constants.ReservationStatusCancelled:
		res.DeletedAt = &ts
		res.CancelledBy = &by
	}
	if to != constants.ReservationStatusCancelled {
		res.DeletedAt = nil
	}
	res.StatusHistory = append(res.StatusHistory, entities.StatusChange{
		From:    res.Status,
		To:      to,
		ActorID: actor.UserID,
		At:      ts,
		Note:    note,
		Forced:  forced,
	})
	res.Status = to
}
