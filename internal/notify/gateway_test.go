package notify

import (
	"context"
	"testing"

	"github.com/erazemk/servis/internal/db"
	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

func TestLogGatewayRecordsDeliveries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	gw := &LogGateway{DB: database}

	if err := gw.NotifyWaiting(ctx, "041111222", "Ana", "laptop", 2); err != nil {
		t.Fatalf("NotifyWaiting: %v", err)
	}
	if err := gw.NotifyOpened(ctx, "041111222", "Ana", "Lenovo T14"); err != nil {
		t.Fatalf("NotifyOpened: %v", err)
	}

	log, err := store.ListNotifications(ctx, database, "041111222")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
	for _, n := range log {
		if n.Status != model.NotificationStatusSent {
			t.Errorf("expected status 'sent', got %q", n.Status)
		}
	}
}

func TestWaitingMessageCounts(t *testing.T) {
	tests := []struct {
		ahead int
		want  string
	}{
		{0, "Hi Ana, your laptop is next in line."},
		{1, "Hi Ana, your laptop is in the queue. 1 device is ahead of yours."},
		{3, "Hi Ana, your laptop is in the queue. 3 devices are ahead of yours."},
	}

	for _, tt := range tests {
		got := waitingMessage("Ana", "laptop", tt.ahead)
		if got != tt.want {
			t.Errorf("waitingMessage(ahead=%d) = %q, want %q", tt.ahead, got, tt.want)
		}
	}
}
