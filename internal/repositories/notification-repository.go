package repositories

import (
	"context"
	"time"

	"equipment-portal/internal/entities"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/constants"
	"equipment-portal/pkg/types"
)

type NotificationRepositoryInterface interface {
	// CreateNotification inserts n unless guard rejects it. guard may be nil.
	CreateNotification(ctx context.Context, n *entities.Notification, guard func(existing []entities.Notification) error) (string, error)
	FindNotification(ctx context.Context, id string) (*entities.Notification, error)
	// GetNotifications lists what userID receives, broadcasts included,
	// newest first. A nil userID lists everything.
	GetNotifications(ctx context.Context, userID *uint64, filter types.Filter) ([]entities.Notification, uint64, error)
	UpdateNotification(ctx context.Context, id string, fn func(n *entities.Notification) error) (*entities.Notification, error)
	MarkAllRead(ctx context.Context, userID uint64, at time.Time) (int, error)
}

type NotificationRepository struct {
	storage *store.Store
}

func NewNotificationRepository(storage *store.Store) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *entities.Notification, guard func(existing []entities.Notification) error) (string, error) {
	rec, err := toRecord(constants.CollectionNotifications, n)
	if err != nil {
		return "", err
	}
	delete(rec, store.FieldID)

	var check func([]store.Record) error
	if guard != nil {
		check = func(existing []store.Record) error {
			all, err := fromRecords[entities.Notification](constants.CollectionNotifications, existing)
			if err != nil {
				return err
			}
			return guard(all)
		}
	}
	return r.storage.InsertIf(ctx, constants.CollectionNotifications, rec, check)
}

func (r *NotificationRepository) FindNotification(ctx context.Context, id string) (*entities.Notification, error) {
	rec, err := r.storage.Get(ctx, constants.CollectionNotifications, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Notification](constants.CollectionNotifications, rec)
}

// GetNotifications also honours filter[type] and filter[is_read].
func (r *NotificationRepository) GetNotifications(ctx context.Context, userID *uint64, filter types.Filter) ([]entities.Notification, uint64, error) {
	recs, err := r.storage.List(ctx, constants.CollectionNotifications)
	if err != nil {
		return nil, 0, err
	}
	all, err := fromRecords[entities.Notification](constants.CollectionNotifications, recs)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]entities.Notification, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		n := &all[i]
		if userID != nil && !n.VisibleTo(*userID) {
			continue
		}
		if v, ok := filter.Value("type"); ok && !matchesAny(n.Type, v) {
			continue
		}
		if v, ok := filter.Value("is_read"); ok && (v == "true") != n.IsRead {
			continue
		}
		matched = append(matched, *n)
	}
	return types.Paginate(matched, filter), uint64(len(matched)), nil
}

func (r *NotificationRepository) UpdateNotification(ctx context.Context, id string, fn func(n *entities.Notification) error) (*entities.Notification, error) {
	rec, err := r.storage.Mutate(ctx, constants.CollectionNotifications, id, func(current store.Record) (store.Record, error) {
		n, err := fromRecord[entities.Notification](constants.CollectionNotifications, current)
		if err != nil {
			return nil, err
		}
		if err := fn(n); err != nil {
			return nil, err
		}
		return store.Record{"is_read": n.IsRead, "read_at": n.ReadAt}, nil
	})
	if err != nil {
		return nil, err
	}
	return fromRecord[entities.Notification](constants.CollectionNotifications, rec)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64, at time.Time) (int, error) {
	match := func(rec store.Record) bool {
		n, err := fromRecord[entities.Notification](constants.CollectionNotifications, rec)
		return err == nil && !n.IsRead && n.VisibleTo(userID)
	}
	return r.storage.UpdateWhere(ctx, constants.CollectionNotifications, match, store.Record{
		"is_read": true,
		"read_at": at,
	})
}
