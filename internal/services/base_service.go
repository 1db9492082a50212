package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/events"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/eventbus"
	"equipment-portal/pkg/metrics"
)

// Clock supplies audit timestamps. *store.Store satisfies it, which keeps
// workflow stamps and store stamps on the same clock.
type Clock interface {
	Now() time.Time
}

// EventPublisher is satisfied by *eventbus.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// BaseService carries what every workflow service shares.
type BaseService struct {
	clock  Clock
	events EventPublisher
	logger *zap.Logger
}

// NewBaseService accepts a nil publisher.
func NewBaseService(clock Clock, events EventPublisher, logger *zap.Logger) BaseService {
	return BaseService{clock: clock, events: events, logger: logger}
}

func (s *BaseService) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *BaseService) requireAdmin(actor entities.Actor, action string) error {
	if !actor.IsAdmin() {
		return apperrors.NewUnauthorizedError("%s requires an admin or handler, got role %q", action, actor.Role)
	}
	return nil
}

// observe counts the outcome of a transition and logs failures.
func (s *BaseService) observe(entity, transition, id string, actor entities.Actor, err error) {
	if err == nil {
		metrics.ObserveTransition(entity, transition, "ok")
		return
	}
	kind := apperrors.KindOf(err)
	metrics.ObserveTransition(entity, transition, kind)

	fields := []zap.Field{
		zap.String("entity", entity),
		zap.String("transition", transition),
		zap.String("id", id),
		zap.Uint64("actor_id", actor.UserID),
		zap.String("kind", kind),
		zap.Error(err),
	}
	switch kind {
	case apperrors.KindInfrastructure:
		s.logger.Error("transition failed", fields...)
	case apperrors.KindConflict:
		s.logger.Warn("transition lost a race or conflicts", fields...)
	default:
		s.logger.Debug("transition refused", fields...)
	}
}

func (s *BaseService) publishStatusChange(ctx context.Context, entity, id string, change entities.StatusChange) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, events.StatusChangedEvent{
		Entity:   entity,
		EntityID: id,
		From:     change.From,
		To:       change.To,
		ActorID:  change.ActorID,
		Forced:   change.Forced,
		At:       change.At,
	})
}

func lastChange(history []entities.StatusChange) entities.StatusChange {
	if len(history) == 0 {
		return entities.StatusChange{}
	}
	return history[len(history)-1]
}
