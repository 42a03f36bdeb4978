package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/servis/internal/db"
	"github.com/erazemk/servis/internal/model"
)

func insertTestItem(t *testing.T, q DBTX, name string, arrival time.Time) *model.QueueItem {
	t.Helper()

	item, err := InsertQueueItem(context.Background(), q, &model.QueueItem{
		ClientName:    name,
		ContactPhone:  "041000000",
		EquipmentType: "laptop",
		ArrivalDate:   arrival,
	})
	if err != nil {
		t.Fatalf("InsertQueueItem: %v", err)
	}
	return item
}

func TestInsertAndGetQueueItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	arrival := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	item := insertTestItem(t, database, "Ana", arrival)

	if item.Status != model.QueueStatusPending {
		t.Errorf("expected status 'pending', got %q", item.Status)
	}

	got, err := GetQueueItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetQueueItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.ClientName != "Ana" {
		t.Errorf("expected client 'Ana', got %q", got.ClientName)
	}
	if !got.ArrivalDate.Equal(arrival) {
		t.Errorf("expected arrival %v, got %v", arrival, got.ArrivalDate)
	}

	missing, err := GetQueueItem(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetQueueItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListQueueItemsOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	insertTestItem(t, database, "Later", base.Add(2*time.Hour))
	insertTestItem(t, database, "Earliest", base)
	insertTestItem(t, database, "Middle", base.Add(time.Hour))

	items, err := ListQueueItems(ctx, database, model.QueueStatusPending)
	if err != nil {
		t.Fatalf("ListQueueItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	want := []string{"Earliest", "Middle", "Later"}
	for i, item := range items {
		if item.ClientName != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], item.ClientName)
		}
	}
}

func TestSetQueuePosition(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := insertTestItem(t, database, "Ana", time.Now().UTC())

	if err := SetQueuePosition(ctx, database, item.ID, 3); err != nil {
		t.Fatalf("SetQueuePosition: %v", err)
	}

	got, _ := GetQueueItem(ctx, database, item.ID)
	if got.PositionIndex != 3 {
		t.Errorf("expected position 3, got %d", got.PositionIndex)
	}
}

func TestMarkQueueOpened(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := insertTestItem(t, database, "Ana", time.Now().UTC())

	ok, err := MarkQueueOpened(ctx, database, item.ID, 2)
	if err != nil {
		t.Fatalf("MarkQueueOpened: %v", err)
	}
	if !ok {
		t.Fatal("expected pending item to be opened")
	}

	got, _ := GetQueueItem(ctx, database, item.ID)
	if got.Status != model.QueueStatusOpened {
		t.Errorf("expected status 'opened', got %q", got.Status)
	}
	if got.PositionIndex != 2 {
		t.Errorf("expected frozen position 2, got %d", got.PositionIndex)
	}

	// A second open is a no-op on an already terminal item.
	ok, err = MarkQueueOpened(ctx, database, item.ID, 0)
	if err != nil {
		t.Fatalf("MarkQueueOpened: %v", err)
	}
	if ok {
		t.Error("expected no-op for already opened item")
	}
	got, _ = GetQueueItem(ctx, database, item.ID)
	if got.PositionIndex != 2 {
		t.Errorf("expected position to stay 2, got %d", got.PositionIndex)
	}
}

func TestDeleteQueueItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := insertTestItem(t, database, "Ana", time.Now().UTC())

	ok, err := DeleteQueueItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteQueueItem: %v", err)
	}
	if !ok {
		t.Error("expected delete to report a removed row")
	}

	got, _ := GetQueueItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}

	ok, err = DeleteQueueItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteQueueItem: %v", err)
	}
	if ok {
		t.Error("expected no-op for missing item")
	}
}

func TestQueueStoreInTransaction(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}

	item := insertTestItem(t, tx, "Ana", time.Now().UTC())
	if err := SetQueuePosition(ctx, tx, item.ID, 0); err != nil {
		t.Fatalf("SetQueuePosition: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, _ := GetQueueItem(ctx, database, item.ID)
	if got == nil {
		t.Fatal("expected committed item to be visible")
	}
}
