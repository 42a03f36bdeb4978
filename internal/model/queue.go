package model

import "time"

// QueueItem represents a piece of equipment waiting to be opened for work.
// ClientName and ContactPhone are a snapshot taken at enqueue time so the
// entry stays intact even if the client record changes later.
type QueueItem struct {
	ID                   int64     `json:"id"`
	ClientID             *int64    `json:"client_id,omitempty"`
	ClientName           string    `json:"client_name"`
	ContactPhone         string    `json:"contact_phone"`
	EquipmentType        string    `json:"equipment_type"`
	EquipmentDescription string    `json:"equipment_description,omitempty"`
	ArrivalDate          time.Time `json:"arrival_date"`
	Notes                string    `json:"notes,omitempty"`
	Status               string    `json:"status"`
	PositionIndex        int       `json:"position_index"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Queue item statuses. Opened is terminal: an opened item never goes back
// to pending, and its position index is frozen at the last value it held.
const (
	QueueStatusPending = "pending"
	QueueStatusOpened  = "opened"
)
