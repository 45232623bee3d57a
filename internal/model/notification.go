package model

// NotificationKind tells what happened to a funko.
type NotificationKind string

const (
	NotificationCreated NotificationKind = "CREATED"
	NotificationUpdated NotificationKind = "UPDATED"
	NotificationDeleted NotificationKind = "DELETED"
)

// Notification is a catalog lifecycle event carrying the affected funko.
type Notification struct {
	Kind  NotificationKind
	Funko Funko
}
