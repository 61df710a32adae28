// Package alerting derives alerts and reorder requests from medicine
// snapshot transitions. ComputePass is pure; writing its results back to
// the store is the caller's job.
package alerting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/models"
)

// ExpiryWarningDays is how far ahead expiry alerts look, inclusive.
const ExpiryWarningDays = 30

// PassResult holds the records one derivation pass wants written.
type PassResult struct {
	Alerts []models.Alert
	Orders []models.Order
}

// ComputePass compares the previous and current medicine snapshots and
// returns the alerts and orders the transition calls for.
//
// Restock alerts are emitted on every low-to-ok transition with no
// dedup; a flapping stock level produces one per flap. Low-stock alerts
// and reorders are deduplicated against the open records in existing
// state, so the pass is idempotent while the condition persists.
func ComputePass(prev, curr []models.Medicine, alerts []models.Alert, orders []models.Order, now time.Time) PassResult {
	prevByID := make(map[string]models.Medicine, len(prev))
	for _, m := range prev {
		prevByID[m.ID] = m
	}

	openLowStock := make(map[string]bool)
	hasExpiryAlert := make(map[string]bool)
	for _, a := range alerts {
		switch a.Type {
		case models.AlertTypeLowStock:
			if a.Open() {
				openLowStock[a.MedicineID] = true
			}
		case models.AlertTypeExpiringSoon:
			hasExpiryAlert[a.MedicineID] = true
		}
	}
	openOrder := make(map[string]bool)
	for _, o := range orders {
		if o.Status != models.OrderStatusDelivered {
			openOrder[o.MedicineID] = true
		}
	}

	var result PassResult
	ts := now.UTC().Format(time.RFC3339)
	for _, m := range curr {
		if p, ok := prevByID[m.ID]; ok &&
			p.CurrentStock <= p.MinStock && m.CurrentStock > m.MinStock {
			result.Alerts = append(result.Alerts, models.Alert{
				ID:          newID("alert", m.ID),
				Type:        models.AlertTypeBroadcast,
				Status:      models.AlertStatusNew,
				Title:       fmt.Sprintf("Restocked: %s", m.Name),
				Description: fmt.Sprintf("%s is back above its minimum stock (%d/%d).", m.Name, m.CurrentStock, m.MinStock),
				MedicineID:  m.ID,
				Timestamp:   ts,
			})
		}

		if m.CurrentStock <= m.MinStock {
			if !openLowStock[m.ID] {
				openLowStock[m.ID] = true
				result.Alerts = append(result.Alerts, models.Alert{
					ID:          newID("alert", m.ID),
					Type:        models.AlertTypeLowStock,
					Status:      models.AlertStatusNew,
					Title:       fmt.Sprintf("Low stock: %s", m.Name),
					Description: fmt.Sprintf("%s is at %d, minimum is %d.", m.Name, m.CurrentStock, m.MinStock),
					MedicineID:  m.ID,
					Timestamp:   ts,
				})
			}
			if !openOrder[m.ID] {
				openOrder[m.ID] = true
				qty := m.PiecesPerBox * 2
				if qty <= 0 {
					qty = m.MinStock
				}
				result.Orders = append(result.Orders, models.Order{
					ID:           "auto-" + newID("order", m.ID),
					MedicineID:   m.ID,
					MedicineName: m.Name,
					Quantity:     qty,
					Status:       models.OrderStatusPending,
					RequestedAt:  ts,
				})
			}
		}

		if expiresSoon(m.ExpiryDate, now) && !hasExpiryAlert[m.ID] {
			hasExpiryAlert[m.ID] = true
			result.Alerts = append(result.Alerts, models.Alert{
				ID:          newID("alert", m.ID),
				Type:        models.AlertTypeExpiringSoon,
				Status:      models.AlertStatusNew,
				Title:       fmt.Sprintf("Expiring soon: %s", m.Name),
				Description: fmt.Sprintf("%s expires on %s.", m.Name, m.ExpiryDate),
				MedicineID:  m.ID,
				Timestamp:   ts,
			})
		}
	}
	return result
}

// expiresSoon reports whether date falls within the warning window:
// today or later, but no more than ExpiryWarningDays ahead. Already
// expired items are disposal candidates, not expiry warnings.
func expiresSoon(date string, now time.Time) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return false
	}
	return !d.After(today.AddDate(0, 0, ExpiryWarningDays))
}

// newID builds a record id from the medicine id, the current time and a
// random suffix. Ordering across clients comes from each record's own
// timestamp field, not from id order.
func newID(kind, medicineID string) string {
	return fmt.Sprintf("%s-%s-%d-%s", kind, medicineID, time.Now().UnixMilli(), uuid.NewString()[:8])
}
