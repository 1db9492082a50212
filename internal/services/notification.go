package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/events"
	"equipment-portal/internal/repositories"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/metrics"
	"equipment-portal/pkg/types"
)

type NotificationServiceInterface interface {
	// Create stores a notification and reports any store failure.
	Create(ctx context.Context, recipient *uint64, message, notificationType, relatedID string) (*entities.Notification, error)
	// Notify is the side effect used by workflows. It never fails: errors are
	// logged and counted. An unread notification with the same recipient, type,
	// related id and message is not repeated.
	Notify(ctx context.Context, recipient *uint64, message, notificationType, relatedID string)
	GetNotifications(ctx context.Context, actor entities.Actor, filter types.Filter) ([]entities.Notification, uint64, error)
	CountUnread(ctx context.Context, actor entities.Actor) (int, error)
	MarkRead(ctx context.Context, actor entities.Actor, id string) (*entities.Notification, error)
	MarkAllRead(ctx context.Context, actor entities.Actor) (int, error)
}

var errAlreadyPending = errors.New("identical unread notification exists")

type NotificationService struct {
	BaseService
	repo repositories.NotificationRepositoryInterface
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	clock Clock,
	events EventPublisher,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		BaseService: NewBaseService(clock, events, logger),
		repo:        repo,
	}
}

func (s *NotificationService) Create(ctx context.Context, recipient *uint64, message, notificationType, relatedID string) (*entities.Notification, error) {
	return s.create(ctx, recipient, message, notificationType, relatedID, nil)
}

func (s *NotificationService) Notify(ctx context.Context, recipient *uint64, message, notificationType, relatedID string) {
	guard := func(existing []entities.Notification) error {
		for i := range existing {
			n := &existing[i]
			if !n.IsRead && n.Type == notificationType && n.RelatedID == relatedID &&
				n.Message == message && sameRecipient(n.UserID, recipient) {
				return errAlreadyPending
			}
		}
		return nil
	}

	_, err := s.create(ctx, recipient, message, notificationType, relatedID, guard)
	switch {
	case err == nil:
	case errors.Is(err, errAlreadyPending):
		s.logger.Debug("notification already pending",
			zap.String("type", notificationType),
			zap.String("related_id", relatedID),
		)
	default:
		metrics.ObserveNotificationFailure(notificationType)
		fields := []zap.Field{
			zap.String("type", notificationType),
			zap.String("related_id", relatedID),
			zap.Error(err),
		}
		if recipient != nil {
			fields = append(fields, zap.Uint64("recipient", *recipient))
		}
		s.logger.Error("notification dropped", fields...)
	}
}

func (s *NotificationService) create(
	ctx context.Context,
	recipient *uint64,
	message, notificationType, relatedID string,
	guard func([]entities.Notification) error,
) (*entities.Notification, error) {
	if strings.TrimSpace(message) == "" || notificationType == "" {
		return nil, apperrors.NewInvalidInputError("notification needs a message and a type")
	}

	now := s.now()
	n := &entities.Notification{
		UserID:    recipient,
		Message:   message,
		Type:      notificationType,
		RelatedID: relatedID,
		CreatedAt: &now,
	}
	id, err := s.repo.CreateNotification(ctx, n, guard)
	if err != nil {
		return nil, err
	}
	n.ID = id

	if s.events != nil {
		s.events.Publish(ctx, events.NotificationCreatedEvent{Notification: *n})
	}
	return n, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, actor entities.Actor, filter types.Filter) ([]entities.Notification, uint64, error) {
	return s.repo.GetNotifications(ctx, &actor.UserID, filter)
}

func (s *NotificationService) CountUnread(ctx context.Context, actor entities.Actor) (int, error) {
	_, total, err := s.repo.GetNotifications(ctx, &actor.UserID, types.Filter{
		Filter: map[string]string{"is_read": "false"},
	})
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// MarkRead acknowledges a notification the actor receives. Acknowledging an
// already read notification keeps the original read_at.
func (s *NotificationService) MarkRead(ctx context.Context, actor entities.Actor, id string) (*entities.Notification, error) {
	return s.repo.UpdateNotification(ctx, id, func(n *entities.Notification) error {
		if !n.VisibleTo(actor.UserID) {
			return apperrors.NewUnauthorizedError("notification %s is addressed to another user", id)
		}
		if n.IsRead {
			return nil
		}
		now := s.now()
		n.IsRead = true
		n.ReadAt = &now
		return nil
	})
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor entities.Actor) (int, error) {
	return s.repo.MarkAllRead(ctx, actor.UserID, s.now())
}

func sameRecipient(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
