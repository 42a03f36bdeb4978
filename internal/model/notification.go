package model

import "time"

// Notification is a record of one attempted outbound message.
type Notification struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification kinds.
const (
	NotificationKindWaiting = "waiting"
	NotificationKindOpened  = "opened"
)

// Notification statuses.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)
