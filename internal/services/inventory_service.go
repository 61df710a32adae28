package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
)

type InventoryService struct {
	engine *syncengine.Engine
}

func NewInventoryService(engine *syncengine.Engine) *InventoryService {
	return &InventoryService{engine: engine}
}

// CreateMedicine adds a stocked item. Quantity is boxes plus loose
// units.
func (s *InventoryService) CreateMedicine(ctx context.Context, req models.CreateMedicineRequest) (*models.Medicine, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("name is required")
	}
	if req.PiecesPerBox <= 0 {
		req.PiecesPerBox = 1
	}

	m := models.Medicine{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Location:     req.Location,
		Barcode:      req.Barcode,
		SerialNumber: req.SerialNumber,
		CurrentStock: req.BoxCount*req.PiecesPerBox + req.SingleUnits,
		MinStock:     req.MinStock,
		PiecesPerBox: req.PiecesPerBox,
		ExpiryDate:   req.ExpiryDate,
		ImageURL:     req.ImageURL,
		Notes:        req.Notes,
		IsBTM:        req.IsBTM,
	}
	if err := s.engine.SaveMedicine(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *InventoryService) UpdateMedicine(ctx context.Context, m models.Medicine) error {
	if _, ok := s.engine.Medicine(m.ID); !ok {
		return ErrMedicineNotFound
	}
	return s.engine.SaveMedicine(ctx, m)
}

// DeleteMedicine removes the item and records who removed it and why.
func (s *InventoryService) DeleteMedicine(ctx context.Context, id, deletedBy, reason string) error {
	m, ok := s.engine.Medicine(id)
	if !ok {
		return ErrMedicineNotFound
	}
	if err := s.engine.DeleteMedicine(ctx, id); err != nil {
		return err
	}
	return s.engine.SaveDeletionLog(ctx, models.DeletionLog{
		ID:           uuid.NewString(),
		MedicineID:   m.ID,
		MedicineName: m.Name,
		DeletedBy:    deletedBy,
		Reason:       reason,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Dispose zeroes the stock of an expired item and records the disposal.
func (s *InventoryService) Dispose(ctx context.Context, id, disposedBy string) (*models.ExpiredMedicineLog, error) {
	m, ok := s.engine.Medicine(id)
	if !ok {
		return nil, ErrMedicineNotFound
	}

	entry := models.ExpiredMedicineLog{
		ID:           uuid.NewString(),
		MedicineID:   m.ID,
		MedicineName: m.Name,
		Quantity:     m.CurrentStock,
		ExpiryDate:   m.ExpiryDate,
		DisposedBy:   disposedBy,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.engine.SaveDisposal(ctx, entry); err != nil {
		return nil, err
	}
	m.CurrentStock = 0
	if err := s.engine.SaveMedicine(ctx, m); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByBarcode scans the snapshot for a barcode or serial number match.
func (s *InventoryService) FindByBarcode(code string) (models.Medicine, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Medicine{}, false
	}
	for _, m := range s.engine.Medicines() {
		if m.Barcode == code || (m.SerialNumber != "" && m.SerialNumber == code) {
			return m, true
		}
	}
	return models.Medicine{}, false
}
