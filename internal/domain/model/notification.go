package model

import "time"

// NotificationKind matches the toast variants of the dashboard.
type NotificationKind string

const (
	NotificationInfo        NotificationKind = "info"
	NotificationDestructive NotificationKind = "destructive"
)

// Notification is a user-facing message pushed to the dashboard.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
	CreatedAt   time.Time
}
