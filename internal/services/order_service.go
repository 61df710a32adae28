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

var ErrOrderNotFound = errors.New("order not found")

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusOrdered:    true,
	models.OrderStatusInProgress: true,
	models.OrderStatusDelivered:  true,
}

type OrderService struct {
	engine *syncengine.Engine
}

func NewOrderService(engine *syncengine.Engine) *OrderService {
	return &OrderService{engine: engine}
}

// CreateOrder places a manual restock request.
func (s *OrderService) CreateOrder(ctx context.Context, requestedBy string, req models.CreateOrderRequest) (*models.Order, error) {
	m, ok := s.engine.Medicine(req.MedicineID)
	if !ok {
		return nil, ErrMedicineNotFound
	}
	if req.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	order := models.Order{
		ID:           uuid.NewString(),
		MedicineID:   m.ID,
		MedicineName: m.Name,
		Quantity:     req.Quantity,
		Status:       models.OrderStatusPending,
		RequestedAt:  time.Now().UTC().Format(time.RFC3339),
		RequestedBy:  requestedBy,
		Notes:        req.Notes,
	}
	if err := s.engine.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order through Pending, Ordered, InProgress and
// Delivered.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !validOrderStatuses[status] {
		return nil, fmt.Errorf("invalid order status %q", status)
	}
	order, ok := s.engine.Order(id)
	if !ok {
		return nil, ErrOrderNotFound
	}
	order.Status = status
	if err := s.engine.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CompleteDelivery books a delivered order into stock: the medicine's
// stock goes up by the delivered quantity (the ordered quantity when
// the receiver books no override), expiry and minimum are updated from
// the delivery paperwork, a Delivery record is written, the order is
// removed and all of the medicine's open alerts are marked completed.
func (s *OrderService) CompleteDelivery(ctx context.Context, orderID string, req models.CompleteDeliveryRequest) (*models.Delivery, error) {
	if req.Quantity < 0 {
		return nil, errors.New("delivered quantity must not be negative")
	}
	order, ok := s.engine.Order(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	m, ok := s.engine.Medicine(order.MedicineID)
	if !ok {
		return nil, ErrMedicineNotFound
	}

	quantity := order.Quantity
	if req.Quantity > 0 {
		quantity = req.Quantity
	}
	m.CurrentStock += quantity
	if req.ExpiryDate != "" {
		m.ExpiryDate = req.ExpiryDate
	}
	if req.MinStock > 0 {
		m.MinStock = req.MinStock
	}
	if err := s.engine.SaveMedicine(ctx, m); err != nil {
		return nil, err
	}

	delivery := models.Delivery{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		MedicineID:   m.ID,
		MedicineName: m.Name,
		Quantity:     quantity,
		ReceivedBy:   req.ReceivedBy,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ExpiryDate:   req.ExpiryDate,
		MinStockSet:  req.MinStock,
	}
	if err := s.engine.SaveDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	if err := s.engine.DeleteOrder(ctx, order.ID); err != nil {
		return nil, err
	}

	// Close out every open alert attached to this medicine.
	for _, a := range s.engine.Alerts() {
		if a.MedicineID == m.ID && a.Open() {
			a.Status = models.AlertStatusCompleted
			if err := s.engine.SaveAlert(ctx, a); err != nil {
				return nil, err
			}
		}
	}
	return &delivery, nil
}
