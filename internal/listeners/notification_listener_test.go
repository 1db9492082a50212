package listeners

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/events"
	"equipment-portal/pkg/eventbus"
)

type recordingFeed struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
}

func (f *recordingFeed) Publish(_ context.Context, subject string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestNotificationListener_ForwardsToFeed(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	feed := &recordingFeed{}
	NewNotificationListener(feed, zap.NewNop()).Register(bus)

	tech := uint64(7)
	bus.Publish(context.Background(), events.NotificationCreatedEvent{Notification: entities.Notification{
		ID: "NTF-20260301-000001", UserID: &tech, Message: "assigned", Type: "task_assigned",
	}})
	bus.Publish(context.Background(), events.NotificationCreatedEvent{Notification: entities.Notification{
		ID: "NTF-20260301-000002", Message: "maintenance window", Type: "announcement",
	}})
	bus.Publish(context.Background(), events.StatusChangedEvent{Entity: "reservation", EntityID: "RES-1", From: "pending", To: "approved"})
	bus.Wait()

	require.Len(t, feed.subjects, 2)
	assert.ElementsMatch(t, []string{"notifications.7", "notifications.broadcast"}, feed.subjects)

	for _, p := range feed.payloads {
		var n entities.Notification
		require.NoError(t, json.Unmarshal(p, &n))
		assert.NotEmpty(t, n.ID)
	}
}

func TestNotificationListener_WithoutFeed(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	NewNotificationListener(nil, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.NotificationCreatedEvent{})
	bus.Wait()
}
