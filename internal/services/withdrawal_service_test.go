package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/models"
	"medstock-backend/internal/store"
	"medstock-backend/internal/syncengine"
)

func newTestEngine(t *testing.T) *syncengine.Engine {
	t.Helper()
	e := syncengine.New(store.NewMemoryStore(), nil, nil)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func seedUser(t *testing.T, e *syncengine.Engine, username, password, fullName string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{
		ID:           "user-" + username,
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         "member",
	}
	if err := e.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedMedicine(t *testing.T, e *syncengine.Engine, id string, stock, min int) models.Medicine {
	t.Helper()
	m := models.Medicine{
		ID: id, Name: "Med " + id, CurrentStock: stock, MinStock: min,
		PiecesPerBox: 10, ExpiryDate: "2099-01-01",
	}
	if err := e.SaveMedicine(context.Background(), m); err != nil {
		t.Fatalf("seed medicine: %v", err)
	}
	return m
}

func finalizeReq(medicineID string, qty int) models.FinalizeWithdrawalRequest {
	return models.FinalizeWithdrawalRequest{
		Lines:    []models.WithdrawalLine{{MedicineID: medicineID, Quantity: qty}},
		Vehicle:  "RTW 1",
		FullName: "Erika Musterfrau",
		Username: "erika",
		Password: "geheim",
	}
}

func TestFinalizeArithmetic(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	seedMedicine(t, e, "m-1", 12, 3)
	svc := NewWithdrawalService(e)

	got, err := svc.Finalize(context.Background(), u.ID, finalizeReq("m-1", 5))
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one withdrawal, got %d", len(got))
	}
	w := got[0]
	if w.StockBefore != 12 || w.StockAfter != 7 || w.Quantity != 5 {
		t.Fatalf("bad arithmetic: before=%d after=%d qty=%d", w.StockBefore, w.StockAfter, w.Quantity)
	}
	if !strings.HasPrefix(w.Signature, "SIG_"+u.ID) {
		t.Fatalf("unexpected signature %q", w.Signature)
	}

	// Stock decremented exactly once.
	m, _ := e.Medicine("m-1")
	if m.CurrentStock != 7 {
		t.Fatalf("expected stock 7, got %d", m.CurrentStock)
	}
	if len(e.Withdrawals()) != 1 {
		t.Fatalf("expected one withdrawal record, got %d", len(e.Withdrawals()))
	}
}

func TestFinalizeFullNameCaseInsensitive(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	seedMedicine(t, e, "m-1", 10, 2)
	svc := NewWithdrawalService(e)

	req := finalizeReq("m-1", 1)
	req.FullName = "  erika musterfrau "
	if _, err := svc.Finalize(context.Background(), u.ID, req); err != nil {
		t.Fatalf("expected case-insensitive name match, got %v", err)
	}
}

func TestFinalizeValidationsBlockAllWrites(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	other := seedUser(t, e, "max", "anders", "Max Mustermann")
	seedMedicine(t, e, "m-1", 10, 2)
	svc := NewWithdrawalService(e)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*models.FinalizeWithdrawalRequest)
		wantErr error
	}{
		{"missing vehicle", func(r *models.FinalizeWithdrawalRequest) { r.Vehicle = "" }, ErrVehicleRequired},
		{"name mismatch", func(r *models.FinalizeWithdrawalRequest) { r.FullName = "Someone Else" }, ErrNameMismatch},
		{"wrong password", func(r *models.FinalizeWithdrawalRequest) { r.Password = "falsch" }, ErrReauthFailed},
		{"other user's credentials", func(r *models.FinalizeWithdrawalRequest) {
			r.Username = other.Username
			r.Password = "anders"
		}, ErrReauthFailed},
		{"empty cart", func(r *models.FinalizeWithdrawalRequest) { r.Lines = nil }, ErrEmptyCart},
		{"insufficient stock", func(r *models.FinalizeWithdrawalRequest) { r.Lines[0].Quantity = 11 }, ErrInsufficientStock},
		{"unknown medicine", func(r *models.FinalizeWithdrawalRequest) { r.Lines[0].MedicineID = "nope" }, ErrMedicineNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := finalizeReq("m-1", 2)
			tt.mutate(&req)
			_, err := svc.Finalize(ctx, u.ID, req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			// No partial writes for validation failures.
			if len(e.Withdrawals()) != 0 {
				t.Fatal("expected no withdrawal records")
			}
			if m, _ := e.Medicine("m-1"); m.CurrentStock != 10 {
				t.Fatalf("expected stock untouched, got %d", m.CurrentStock)
			}
		})
	}
}

func TestFinalizeMultiLineCart(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	seedMedicine(t, e, "m-1", 10, 2)
	seedMedicine(t, e, "m-2", 6, 1)
	svc := NewWithdrawalService(e)

	req := finalizeReq("m-1", 2)
	req.Lines = append(req.Lines, models.WithdrawalLine{MedicineID: "m-2", Quantity: 6})

	got, err := svc.Finalize(context.Background(), u.ID, req)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two withdrawals, got %d", len(got))
	}
	// One shared signature for the whole cart.
	if got[0].Signature != got[1].Signature {
		t.Fatal("expected a single signature per finalization")
	}
	m1, _ := e.Medicine("m-1")
	m2, _ := e.Medicine("m-2")
	if m1.CurrentStock != 8 || m2.CurrentStock != 0 {
		t.Fatalf("unexpected stocks %d/%d", m1.CurrentStock, m2.CurrentStock)
	}
}

func TestFinalizeMergesDuplicateLines(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	seedMedicine(t, e, "m-1", 10, 2)
	svc := NewWithdrawalService(e)

	req := finalizeReq("m-1", 3)
	req.Lines = append(req.Lines, models.WithdrawalLine{MedicineID: "m-1", Quantity: 4})

	got, err := svc.Finalize(context.Background(), u.ID, req)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected duplicate lines merged into one withdrawal, got %d", len(got))
	}
	w := got[0]
	if w.Quantity != 7 || w.StockBefore != 10 || w.StockAfter != 3 {
		t.Fatalf("bad arithmetic: before=%d after=%d qty=%d", w.StockBefore, w.StockAfter, w.Quantity)
	}

	// The full merged quantity comes off the stock.
	m, _ := e.Medicine("m-1")
	if m.CurrentStock != 3 {
		t.Fatalf("expected stock 3, got %d", m.CurrentStock)
	}

	// Merged quantity still checks against available stock.
	over := finalizeReq("m-1", 2)
	over.Lines = append(over.Lines, models.WithdrawalLine{MedicineID: "m-1", Quantity: 2})
	if _, err := svc.Finalize(context.Background(), u.ID, over); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}
