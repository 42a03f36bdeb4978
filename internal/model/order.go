package model

import "time"

// ServiceOrder represents opened work on a piece of equipment.
type ServiceOrder struct {
	ID                 int64      `json:"id"`
	Reference          string     `json:"reference"`
	ClientID           *int64     `json:"client_id,omitempty"`
	QueueItemID        *int64     `json:"queue_item_id,omitempty"`
	EquipmentType      string     `json:"equipment_type"`
	EquipmentDesc      string     `json:"equipment_description,omitempty"`
	ProblemDescription string     `json:"problem_description,omitempty"`
	PhotoMime          string     `json:"photo_mime,omitempty"`
	Status             string     `json:"status"`
	CreatedBy          *int64     `json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	ClientName string `json:"client_name,omitempty"`
}

// Service order statuses.
const (
	OrderStatusReceived   = "received"
	OrderStatusInProgress = "in_progress"
	OrderStatusDone       = "done"
	OrderStatusDelivered  = "delivered"
)

// ValidOrderStatus reports whether s is a known service order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusReceived, OrderStatusInProgress, OrderStatusDone, OrderStatusDelivered:
		return true
	}
	return false
}
