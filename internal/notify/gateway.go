// Package notify defines the outbound messaging capability consumed by the
// queue engine. The engine treats every send as best-effort: a failed
// delivery is logged and never rolls back or fails a queue operation.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// Gateway sends templated messages to a client's phone.
type Gateway interface {
	// NotifyWaiting tells a waiting client how many devices are ahead of theirs.
	NotifyWaiting(ctx context.Context, phone, clientName, equipmentType string, aheadCount int) error

	// NotifyOpened tells a client their equipment is now being worked on.
	NotifyOpened(ctx context.Context, phone, clientName, equipmentDescription string) error
}

// LogGateway is the shop's stand-in for an SMS provider: it composes the
// message, logs it, and records the attempt in the delivery log. Swapping in
// a real provider only requires another Gateway implementation.
type LogGateway struct {
	DB *sql.DB
}

func (g *LogGateway) NotifyWaiting(ctx context.Context, phone, clientName, equipmentType string, aheadCount int) error {
	message := waitingMessage(clientName, equipmentType, aheadCount)
	return g.deliver(ctx, phone, model.NotificationKindWaiting, message)
}

func (g *LogGateway) NotifyOpened(ctx context.Context, phone, clientName, equipmentDescription string) error {
	message := openedMessage(clientName, equipmentDescription)
	return g.deliver(ctx, phone, model.NotificationKindOpened, message)
}

func (g *LogGateway) deliver(ctx context.Context, phone, kind, message string) error {
	slog.Info("notification sent", "phone", phone, "kind", kind, "message", message)

	if err := store.RecordNotification(ctx, g.DB, phone, kind, message, model.NotificationStatusSent); err != nil {
		return fmt.Errorf("logging delivery: %w", err)
	}
	return nil
}

// waitingMessage composes the position-update text for a waiting client.
func waitingMessage(clientName, equipmentType string, aheadCount int) string {
	switch aheadCount {
	case 0:
		return fmt.Sprintf("Hi %s, your %s is next in line.", clientName, equipmentType)
	case 1:
		return fmt.Sprintf("Hi %s, your %s is in the queue. 1 device is ahead of yours.", clientName, equipmentType)
	default:
		return fmt.Sprintf("Hi %s, your %s is in the queue. %d devices are ahead of yours.", clientName, equipmentType, aheadCount)
	}
}

// openedMessage composes the intake-started text for a client.
func openedMessage(clientName, equipmentDescription string) string {
	return fmt.Sprintf("Hi %s, we have started working on your %s.", clientName, equipmentDescription)
}
