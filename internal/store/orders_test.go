package store

import (
	"context"
	"strings"
	"testing"

	"github.com/erazemk/servis/internal/db"
	"github.com/erazemk/servis/internal/model"
)

func TestCreateAndGetOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	order, err := CreateOrder(ctx, database, CreateOrderInput{
		EquipmentType:      "laptop",
		ProblemDescription: "does not boot",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Status != model.OrderStatusReceived {
		t.Errorf("expected status 'received', got %q", order.Status)
	}
	if !strings.HasPrefix(order.Reference, "SO-") {
		t.Errorf("expected SO- reference, got %q", order.Reference)
	}

	got, err := GetOrder(ctx, database, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got == nil {
		t.Fatal("expected order, got nil")
	}
	if got.ProblemDescription != "does not boot" {
		t.Errorf("expected problem description, got %q", got.ProblemDescription)
	}
}

func TestOrderClientName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	client, _ := CreateClient(ctx, database, "Ana Novak", "041111222", "", "")
	order, err := CreateOrder(ctx, database, CreateOrderInput{
		ClientID:      &client.ID,
		EquipmentType: "phone",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, _ := GetOrder(ctx, database, order.ID)
	if got.ClientName != "Ana Novak" {
		t.Errorf("expected joined client name, got %q", got.ClientName)
	}
}

func TestListOrdersByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateOrder(ctx, database, CreateOrderInput{EquipmentType: "laptop"})
	CreateOrder(ctx, database, CreateOrderInput{EquipmentType: "phone"})

	if err := UpdateOrderStatus(ctx, database, first.ID, model.OrderStatusDone); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	orders, err := ListOrders(ctx, database, model.OrderStatusDone)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != first.ID {
		t.Errorf("expected only the done order, got %v", orders)
	}

	all, err := ListOrders(ctx, database, "")
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 orders, got %d", len(all))
	}
}

func TestUpdateOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	order, _ := CreateOrder(ctx, database, CreateOrderInput{EquipmentType: "laptop"})

	if err := UpdateOrder(ctx, database, order.ID, "desktop", "tower, no side panel", "overheats"); err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	got, _ := GetOrder(ctx, database, order.ID)
	if got.EquipmentType != "desktop" || got.ProblemDescription != "overheats" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteOrderHidesFromList(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	order, _ := CreateOrder(ctx, database, CreateOrderInput{EquipmentType: "laptop"})

	if err := DeleteOrder(ctx, database, order.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}

	got, err := GetOrder(ctx, database, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted order")
	}
}

func TestOrderPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	order, _ := CreateOrder(ctx, database, CreateOrderInput{EquipmentType: "laptop"})

	photo := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if err := SetOrderPhoto(ctx, database, order.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetOrderPhoto: %v", err)
	}

	data, mime, err := GetOrderPhoto(ctx, database, order.ID)
	if err != nil {
		t.Fatalf("GetOrderPhoto: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
	if len(data) != len(photo) {
		t.Errorf("expected %d bytes, got %d", len(photo), len(data))
	}
}

func TestGenerateReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		ref, err := generateReference()
		if err != nil {
			t.Fatalf("generateReference: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}
