package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
)

var ErrAuditNotFound = errors.New("audit not found")

type AuditService struct {
	engine *syncengine.Engine
}

func NewAuditService(engine *syncengine.Engine) *AuditService {
	return &AuditService{engine: engine}
}

// SubmitAudit records a physical count against the snapshot's expected
// quantities. Audits are immutable once written.
func (s *AuditService) SubmitAudit(ctx context.Context, auditorID string, req models.SubmitAuditRequest) (*models.InventoryAudit, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("audit needs at least one counted item")
	}

	items := make([]models.AuditItem, 0, len(req.Items))
	for _, line := range req.Items {
		m, ok := s.engine.Medicine(line.MedicineID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, line.MedicineID)
		}
		items = append(items, models.AuditItem{
			MedicineID:  m.ID,
			ExpectedQty: m.CurrentStock,
			ActualQty:   line.ActualQty,
			Difference:  line.ActualQty - m.CurrentStock,
		})
	}

	audit := models.InventoryAudit{
		ID:        uuid.NewString(),
		AuditorID: auditorID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Items:     items,
		Notes:     req.Notes,
	}
	if err := s.engine.SaveAudit(ctx, audit); err != nil {
		return nil, err
	}
	return &audit, nil
}

// ApplyAudit corrects system stock to the counted quantities of a
// submitted audit. Separate from submission so discrepancies can be
// reviewed first.
func (s *AuditService) ApplyAudit(ctx context.Context, auditID string) (*models.InventoryAudit, error) {
	var audit models.InventoryAudit
	found := false
	for _, a := range s.engine.Audits() {
		if a.ID == auditID {
			audit = a
			found = true
			break
		}
	}
	if !found {
		return nil, ErrAuditNotFound
	}

	for _, item := range audit.Items {
		if item.Difference == 0 {
			continue
		}
		m, ok := s.engine.Medicine(item.MedicineID)
		if !ok {
			continue
		}
		m.CurrentStock = item.ActualQty
		if err := s.engine.SaveMedicine(ctx, m); err != nil {
			return nil, err
		}
	}
	return &audit, nil
}
