package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
)

// Validation failures surface synchronously before any write happens.
var (
	ErrVehicleRequired   = errors.New("vehicle must be selected")
	ErrNameMismatch      = errors.New("full name does not match the signed-in user")
	ErrReauthFailed      = errors.New("re-authentication failed")
	ErrEmptyCart         = errors.New("withdrawal cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMedicineNotFound  = errors.New("medicine not found")
)

type WithdrawalService struct {
	engine *syncengine.Engine
}

func NewWithdrawalService(engine *syncengine.Engine) *WithdrawalService {
	return &WithdrawalService{engine: engine}
}

// Finalize validates the cart, then writes all withdrawal records
// followed by the decremented medicines. The two write calls are not
// atomic and stock values come from the current snapshot, so two
// instances finalizing the same low-stock item concurrently can both
// read the same stockBefore. Accepted limitation, no compare-and-swap.
func (s *WithdrawalService) Finalize(ctx context.Context, sessionUserID string, req models.FinalizeWithdrawalRequest) ([]models.Withdrawal, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(req.Vehicle) == "" {
		return nil, ErrVehicleRequired
	}

	sessionUser, ok := s.engine.User(sessionUserID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !strings.EqualFold(strings.TrimSpace(req.FullName), strings.TrimSpace(sessionUser.FullName)) {
		return nil, ErrNameMismatch
	}
	// Redundant re-authentication: the typed credentials must belong to
	// the session user, not merely to any valid account.
	reauthUser, ok := s.engine.UserByUsername(strings.TrimSpace(req.Username))
	if !ok || reauthUser.ID != sessionUser.ID || !auth.VerifyPassword(reauthUser.PasswordHash, req.Password) {
		return nil, ErrReauthFailed
	}

	now := time.Now().UTC()
	ts := now.Format(time.RFC3339)
	signature := fmt.Sprintf("SIG_%s_%d", sessionUser.ID, now.UnixMilli())

	// The cart is keyed by medicine: repeated lines for the same id are
	// merged into one, so each medicine gets exactly one stock read and
	// one decrement within this request.
	var lines []models.WithdrawalLine
	index := make(map[string]int)
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for %s", line.Quantity, line.MedicineID)
		}
		if i, ok := index[line.MedicineID]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		index[line.MedicineID] = len(lines)
		lines = append(lines, line)
	}

	type decrement struct {
		medicine models.Medicine
		after    int
	}
	var (
		withdrawals []models.Withdrawal
		decrements  []decrement
	)
	for _, line := range lines {
		m, ok := s.engine.Medicine(line.MedicineID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, line.MedicineID)
		}
		if m.CurrentStock < line.Quantity {
			return nil, fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, m.Name, m.CurrentStock, line.Quantity)
		}
		after := m.CurrentStock - line.Quantity
		withdrawals = append(withdrawals, models.Withdrawal{
			ID:             uuid.NewString(),
			MedicineID:     m.ID,
			MedicineName:   m.Name,
			Quantity:       line.Quantity,
			UserID:         sessionUser.ID,
			Username:       sessionUser.Username,
			FullName:       sessionUser.FullName,
			Vehicle:        req.Vehicle,
			IncidentNumber: req.IncidentNumber,
			Timestamp:      ts,
			StockBefore:    m.CurrentStock,
			StockAfter:     after,
			Signature:      signature,
			IsBTM:          m.IsBTM,
		})
		decrements = append(decrements, decrement{medicine: m, after: after})
	}

	// All validations passed; from here on writes happen with no
	// rollback.
	for _, w := range withdrawals {
		if err := s.engine.SaveWithdrawal(ctx, w); err != nil {
			return nil, err
		}
	}
	for _, d := range decrements {
		m := d.medicine
		m.CurrentStock = d.after
		if err := s.engine.SaveMedicine(ctx, m); err != nil {
			return nil, err
		}
	}
	return withdrawals, nil
}
