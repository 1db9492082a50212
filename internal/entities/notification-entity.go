package entities

import "time"

// Notification is addressed to UserID, or to everyone when UserID is nil.
type Notification struct {
	ID        string     `json:"id"`
	UserID    *uint64    `json:"user_id"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	RelatedID string     `json:"related_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// VisibleTo reports whether userID receives this notification.
func (n *Notification) VisibleTo(userID uint64) bool {
	return n.UserID == nil || *n.UserID == userID
}
