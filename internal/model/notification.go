package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeAppointment  NotificationType = "Appointment"
	NotificationTypeCancellation NotificationType = "Cancellation"
)

// Notification is a write-only audit trail of messages sent to users.
// The core logic never reads these rows back.
type Notification struct {
	ID        uuid.UUID        `json:"notification_id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NotificationEvent is the payload published to the message broker for
// in-app consumers.
type NotificationEvent struct {
	NotificationID uuid.UUID        `json:"notification_id"`
	UserID         uuid.UUID        `json:"user_id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	CreatedAt      time.Time        `json:"created_at"`
}
