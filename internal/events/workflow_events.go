package events

import (
	"time"

	"equipment-portal/internal/entities"
)

const (
	StatusChangedEventName       = "workflow.status.changed"
	NotificationCreatedEventName = "notification.created"
)

// StatusChangedEvent is published after a defect report or reservation
// status change has been persisted.
type StatusChangedEvent struct {
	Entity   string
	EntityID string
	From     string
	To       string
	ActorID  uint64
	Forced   bool
	At       time.Time
}

func (e StatusChangedEvent) Name() string {
	return StatusChangedEventName
}

// NotificationCreatedEvent is published after a notification record has been
// stored.
type NotificationCreatedEvent struct {
	Notification entities.Notification
}

func (e NotificationCreatedEvent) Name() string {
	return NotificationCreatedEventName
}
