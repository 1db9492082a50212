package listeners

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"equipment-portal/internal/events"
	"equipment-portal/pkg/eventbus"
)

// FeedPublisher forwards a payload to external delivery code.
type FeedPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// NotificationListener writes the audit log line for every status change and
// forwards stored notifications to the feed. It never delivers anything to a
// user itself.
type NotificationListener struct {
	feed   FeedPublisher
	logger *zap.Logger
}

// NewNotificationListener accepts a nil feed, in which case notifications are
// only logged.
func NewNotificationListener(feed FeedPublisher, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		feed:   feed,
		logger: logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.StatusChangedEventName, l.handleStatusChanged)
	bus.Subscribe(events.NotificationCreatedEventName, l.handleNotificationCreated)
	l.logger.Info("notification listener subscribed",
		zap.Strings("events", []string{events.StatusChangedEventName, events.NotificationCreatedEventName}),
		zap.Bool("feed", l.feed != nil),
	)
}

func (l *NotificationListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.StatusChangedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("status changed",
		zap.String("entity", e.Entity),
		zap.String("id", e.EntityID),
		zap.String("from", e.From),
		zap.String("to", e.To),
		zap.Uint64("actor_id", e.ActorID),
		zap.Bool("forced", e.Forced),
		zap.Time("at", e.At),
	)
	return nil
}

func (l *NotificationListener) handleNotificationCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.NotificationCreatedEvent)
	if !ok || l.feed == nil {
		return nil
	}

	payload, err := json.Marshal(e.Notification)
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", e.Notification.ID, err)
	}
	subject := FeedSubject(e.Notification.UserID)
	if err := l.feed.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish notification %s to %s: %w", e.Notification.ID, subject, err)
	}
	return nil
}

// FeedSubject is notifications.<user id>, or notifications.broadcast.
func FeedSubject(userID *uint64) string {
	if userID == nil {
		return "notifications.broadcast"
	}
	return "notifications." + strconv.FormatUint(*userID, 10)
}
