package services

import (
	"context"
	"errors"
	"testing"

	"medstock-backend/internal/models"
)

func TestSubmitAuditRecordsDifferences(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 10, 2)
	seedMedicine(t, e, "m-2", 4, 1)
	svc := NewAuditService(e)

	audit, err := svc.SubmitAudit(context.Background(), "user-erika", models.SubmitAuditRequest{
		Items: []models.SubmitAuditItem{
			{MedicineID: "m-1", ActualQty: 8},
			{MedicineID: "m-2", ActualQty: 4},
		},
		Notes: "monthly count",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if audit.AuditorID != "user-erika" {
		t.Fatalf("unexpected auditor %q", audit.AuditorID)
	}
	if audit.Items[0].ExpectedQty != 10 || audit.Items[0].Difference != -2 {
		t.Fatalf("unexpected item %+v", audit.Items[0])
	}
	if audit.Discrepancies() != 1 {
		t.Fatalf("expected one discrepancy, got %d", audit.Discrepancies())
	}

	// Submission alone never touches stock.
	if m, _ := e.Medicine("m-1"); m.CurrentStock != 10 {
		t.Fatalf("expected stock untouched, got %d", m.CurrentStock)
	}
}

func TestApplyAuditCorrectsStock(t *testing.T) {
	e := newTestEngine(t)
	seedMedicine(t, e, "m-1", 10, 2)
	svc := NewAuditService(e)
	ctx := context.Background()

	audit, err := svc.SubmitAudit(ctx, "user-erika", models.SubmitAuditRequest{
		Items: []models.SubmitAuditItem{{MedicineID: "m-1", ActualQty: 7}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.ApplyAudit(ctx, audit.ID); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m, _ := e.Medicine("m-1"); m.CurrentStock != 7 {
		t.Fatalf("expected corrected stock 7, got %d", m.CurrentStock)
	}

	if _, err := svc.ApplyAudit(ctx, "nope"); !errors.Is(err, ErrAuditNotFound) {
		t.Fatalf("expected ErrAuditNotFound, got %v", err)
	}
}

func TestSubmitAuditEmpty(t *testing.T) {
	e := newTestEngine(t)
	svc := NewAuditService(e)

	if _, err := svc.SubmitAudit(context.Background(), "user-erika", models.SubmitAuditRequest{}); err == nil {
		t.Fatal("expected error for empty audit")
	}
}
