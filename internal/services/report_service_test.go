package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"medstock-backend/internal/models"
)

func TestGenerateWithdrawalPDF(t *testing.T) {
	e := newTestEngine(t)
	svc := NewReportService(e)
	ctx := context.Background()

	withdrawals := []models.Withdrawal{
		{
			ID: "w-1", MedicineID: "m-1", MedicineName: "Morphin 10mg", Quantity: 1,
			StockBefore: 5, StockAfter: 4, FullName: "Erika Musterfrau",
			Vehicle: "RTW 1", Signature: "SIG_user-erika_1", IsBTM: true,
			Timestamp: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		},
		{
			ID: "w-2", MedicineID: "m-2", MedicineName: "NaCl 0.9%", Quantity: 2,
			StockBefore: 20, StockAfter: 18, FullName: "Max Mustermann",
			Vehicle: "NEF 1", Signature: "SIG_user-max_2",
			Timestamp: time.Date(2024, 5, 12, 14, 0, 0, 0, time.UTC).Format(time.RFC3339),
		},
	}
	if err := e.UpdateWithdrawals(ctx, withdrawals); err != nil {
		t.Fatalf("seed withdrawals: %v", err)
	}

	pdf, err := svc.GenerateWithdrawalPDF(WithdrawalFilter{})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}

	// The BTM register variant still renders with one entry filtered in.
	btm, err := svc.GenerateWithdrawalPDF(WithdrawalFilter{BTMOnly: true})
	if err != nil {
		t.Fatalf("btm pdf: %v", err)
	}
	if !bytes.HasPrefix(btm, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}

	// Date filter excluding everything still produces a valid document.
	empty, err := svc.GenerateWithdrawalPDF(WithdrawalFilter{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("empty pdf: %v", err)
	}
	if !bytes.HasPrefix(empty, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}

func TestGenerateInventoryCSV(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 10, 2)
	seedMedicine(t, e, "m-2", 4, 1)
	svc := NewReportService(e)

	out, err := svc.GenerateInventoryCSV()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][5] != "currentStock" {
		t.Fatalf("unexpected header %v", records[0])
	}
	// Sorted by name.
	if records[1][1] != "Med m-1" || records[2][1] != "Med m-2" {
		t.Fatalf("unexpected row order %v / %v", records[1], records[2])
	}
}

func TestGenerateAuditPDF(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 10, 2)
	svc := NewReportService(e)
	ctx := context.Background()

	audit := models.InventoryAudit{
		ID:        "audit-1",
		AuditorID: "user-1",
		Timestamp: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Items: []models.AuditItem{
			{MedicineID: "m-1", ExpectedQty: 10, ActualQty: 8, Difference: -2},
		},
		Notes: "evening count",
	}
	if err := e.SaveAudit(ctx, audit); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	pdf, err := svc.GenerateAuditPDF("audit-1")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}

	if _, err := svc.GenerateAuditPDF("nope"); err != ErrAuditNotFound {
		t.Fatalf("expected ErrAuditNotFound, got %v", err)
	}
}

func TestGenerateDisposalsCSV(t *testing.T) {
	e := newTestEngine(t)
	svc := NewReportService(e)
	ctx := context.Background()

	if err := e.SaveDisposal(ctx, models.ExpiredMedicineLog{
		ID: "d-1", MedicineID: "m-1", MedicineName: "Med m-1", Quantity: 3,
		ExpiryDate: "2024-04-01", DisposedBy: "Erika Musterfrau",
		Timestamp: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}); err != nil {
		t.Fatalf("seed disposal: %v", err)
	}

	out, err := svc.GenerateDisposalsCSV()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	if records[1][2] != "Med m-1" || records[1][3] != "3" {
		t.Fatalf("unexpected row %v", records[1])
	}
}
