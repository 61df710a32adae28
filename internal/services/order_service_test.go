package services

import (
	"context"
	"errors"
	"testing"

	"medstock-backend/internal/models"
)

func TestCompleteDeliveryBooksStock(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 2, 5)
	svc := NewOrderService(e)
	ctx := context.Background()

	// Open low-stock alert that the delivery should resolve.
	if err := e.SaveAlert(ctx, models.Alert{
		ID: "a-1", Type: models.AlertTypeLowStock,
		Status: models.AlertStatusNew, MedicineID: "m-1",
	}); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	order, err := svc.CreateOrder(ctx, "erika", models.CreateOrderRequest{MedicineID: "m-1", Quantity: 20})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	delivery, err := svc.CompleteDelivery(ctx, order.ID, models.CompleteDeliveryRequest{
		ExpiryDate: "2027-06-30",
		MinStock:   8,
		ReceivedBy: "Erika Musterfrau",
	})
	if err != nil {
		t.Fatalf("complete delivery: %v", err)
	}
	if delivery.Quantity != 20 || delivery.OrderID != order.ID {
		t.Fatalf("unexpected delivery %+v", delivery)
	}

	m, _ := e.Medicine("m-1")
	if m.CurrentStock != 22 || m.ExpiryDate != "2027-06-30" || m.MinStock != 8 {
		t.Fatalf("medicine not booked correctly: %+v", m)
	}

	// Order removed, alert completed.
	if _, ok := e.Order(order.ID); ok {
		t.Fatal("expected order to be deleted after delivery")
	}
	a, _ := e.Alert("a-1")
	if a.Status != models.AlertStatusCompleted {
		t.Fatalf("expected alert completed, got %q", a.Status)
	}
}

func TestUpdateStatusValidatesLifecycle(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 50, 5)
	svc := NewOrderService(e)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "erika", models.CreateOrderRequest{MedicineID: "m-1", Quantity: 10})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusOrdered)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if got.Status != models.OrderStatusOrdered {
		t.Fatalf("expected Ordered, got %q", got.Status)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID, "Shipped"); err == nil {
		t.Fatal("expected invalid status to be rejected")
	}
	if _, err := svc.UpdateStatus(ctx, "nope", models.OrderStatusOrdered); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestDisposeZeroesStockAndLogs(t *testing.T) {
	e := newTestEngine(t)
	m := seedMedicine(t, e, "m-1", 7, 2)
	svc := NewInventoryService(e)

	entry, err := svc.Dispose(context.Background(), m.ID, "Erika Musterfrau")
	if err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if entry.Quantity != 7 || entry.MedicineID != m.ID {
		t.Fatalf("unexpected disposal entry %+v", entry)
	}
	got, _ := e.Medicine(m.ID)
	if got.CurrentStock != 0 {
		t.Fatalf("expected stock zeroed, got %d", got.CurrentStock)
	}
}

func TestDeleteMedicineWritesDeletionLog(t *testing.T) {
	e := newTestEngine(t)
	m := seedMedicine(t, e, "m-1", 7, 2)
	svc := NewInventoryService(e)

	if err := svc.DeleteMedicine(context.Background(), m.ID, "Erika Musterfrau", "damaged packaging"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := e.Medicine(m.ID); ok {
		t.Fatal("expected medicine removed")
	}
	snap := e.Snapshot()
	if len(snap.DeletionLogs) != 1 || snap.DeletionLogs[0].Reason != "damaged packaging" {
		t.Fatalf("expected deletion log, got %+v", snap.DeletionLogs)
	}
}

func TestCompleteDeliveryQuantityOverride(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 2, 5)
	svc := NewOrderService(e)
	ctx := context.Background()

	// Open issue about this medicine; the delivery resolves it too.
	if err := e.SaveAlert(ctx, models.Alert{
		ID: "a-1", Type: models.AlertTypeIssue,
		Status: models.AlertStatusNew, MedicineID: "m-1",
	}); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	order, err := svc.CreateOrder(ctx, "erika", models.CreateOrderRequest{MedicineID: "m-1", Quantity: 20})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Receiver books the amount that actually arrived.
	delivery, err := svc.CompleteDelivery(ctx, order.ID, models.CompleteDeliveryRequest{
		Quantity:   12,
		ExpiryDate: "2027-06-30",
		MinStock:   8,
		ReceivedBy: "Erika Musterfrau",
	})
	if err != nil {
		t.Fatalf("complete delivery: %v", err)
	}
	if delivery.Quantity != 12 {
		t.Fatalf("expected booked quantity 12, got %d", delivery.Quantity)
	}
	if delivery.ExpiryDate != "2027-06-30" || delivery.MinStockSet != 8 {
		t.Fatalf("expected paperwork recorded on delivery, got %+v", delivery)
	}

	m, _ := e.Medicine("m-1")
	if m.CurrentStock != 14 {
		t.Fatalf("expected stock 14, got %d", m.CurrentStock)
	}
	a, _ := e.Alert("a-1")
	if a.Status != models.AlertStatusCompleted {
		t.Fatalf("expected issue alert completed, got %q", a.Status)
	}
}

func TestCompleteDeliveryRejectsNegativeQuantity(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 2, 5)
	svc := NewOrderService(e)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, "erika", models.CreateOrderRequest{MedicineID: "m-1", Quantity: 5})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.CompleteDelivery(ctx, order.ID, models.CompleteDeliveryRequest{Quantity: -1}); err == nil {
		t.Fatal("expected negative quantity to be rejected")
	}
}
