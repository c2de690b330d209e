package domain

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	ID        uint64
	Kind      NotificationKind
	Message   string
	CreatedAt time.Time
}
