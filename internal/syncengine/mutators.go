package syncengine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"medstock-backend/internal/metrics"
	"medstock-backend/internal/models"
	"medstock-backend/internal/store"
)

func recordWrite(collection string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.StoreWritesTotal.WithLabelValues(collection, outcome).Inc()
}

// updateCollection pushes the full proposed collection via batch
// upsert. It returns without waiting for the subscription to echo the
// change; the snapshot updates when the delivery arrives.
func updateCollection[T any](e *Engine, ctx context.Context, collection string, items []T, id func(T) string) error {
	e.beginWrite()
	defer e.endWrite()
	err := e.store.BatchUpsert(ctx, collection, encodeDocs(items, id))
	recordWrite(collection, err)
	if err != nil {
		log.Printf("[Sync] Update of %s failed: %v", collection, err)
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

// saveSingle upserts one document, used for single-entity mutations so
// the whole collection is not re-sent.
func saveSingle[T any](e *Engine, ctx context.Context, collection, docID string, item T) error {
	e.beginWrite()
	defer e.endWrite()
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", collection, docID, err)
	}
	err = e.store.UpsertDocument(ctx, collection, docID, data)
	recordWrite(collection, err)
	if err != nil {
		log.Printf("[Sync] Save of %s/%s failed: %v", collection, docID, err)
		return fmt.Errorf("save %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (e *Engine) deleteSingle(ctx context.Context, collection, docID string) error {
	e.beginWrite()
	defer e.endWrite()
	err := e.store.DeleteDocument(ctx, collection, docID)
	recordWrite(collection, err)
	if err != nil {
		log.Printf("[Sync] Delete of %s/%s failed: %v", collection, docID, err)
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	return nil
}

func (e *Engine) UpdateMedicines(ctx context.Context, items []models.Medicine) error {
	return updateCollection(e, ctx, store.CollectionMedicines, items, func(m models.Medicine) string { return m.ID })
}

func (e *Engine) SaveMedicine(ctx context.Context, m models.Medicine) error {
	return saveSingle(e, ctx, store.CollectionMedicines, m.ID, m)
}

func (e *Engine) DeleteMedicine(ctx context.Context, id string) error {
	return e.deleteSingle(ctx, store.CollectionMedicines, id)
}

func (e *Engine) UpdateUsers(ctx context.Context, items []models.User) error {
	return updateCollection(e, ctx, store.CollectionUsers, items, func(u models.User) string { return u.ID })
}

func (e *Engine) SaveUser(ctx context.Context, u models.User) error {
	return saveSingle(e, ctx, store.CollectionUsers, u.ID, u)
}

func (e *Engine) DeleteUser(ctx context.Context, id string) error {
	return e.deleteSingle(ctx, store.CollectionUsers, id)
}

func (e *Engine) UpdateWithdrawals(ctx context.Context, items []models.Withdrawal) error {
	return updateCollection(e, ctx, store.CollectionWithdrawals, items, func(w models.Withdrawal) string { return w.ID })
}

func (e *Engine) SaveWithdrawal(ctx context.Context, w models.Withdrawal) error {
	return saveSingle(e, ctx, store.CollectionWithdrawals, w.ID, w)
}

func (e *Engine) UpdateOrders(ctx context.Context, items []models.Order) error {
	return updateCollection(e, ctx, store.CollectionOrders, items, func(o models.Order) string { return o.ID })
}

func (e *Engine) SaveOrder(ctx context.Context, o models.Order) error {
	return saveSingle(e, ctx, store.CollectionOrders, o.ID, o)
}

func (e *Engine) DeleteOrder(ctx context.Context, id string) error {
	return e.deleteSingle(ctx, store.CollectionOrders, id)
}

func (e *Engine) UpdateAlerts(ctx context.Context, items []models.Alert) error {
	return updateCollection(e, ctx, store.CollectionAlerts, items, func(a models.Alert) string { return a.ID })
}

func (e *Engine) SaveAlert(ctx context.Context, a models.Alert) error {
	return saveSingle(e, ctx, store.CollectionAlerts, a.ID, a)
}

func (e *Engine) DeleteAlert(ctx context.Context, id string) error {
	return e.deleteSingle(ctx, store.CollectionAlerts, id)
}

func (e *Engine) UpdateTasks(ctx context.Context, items []models.Task) error {
	return updateCollection(e, ctx, store.CollectionTasks, items, func(t models.Task) string { return t.ID })
}

func (e *Engine) SaveTask(ctx context.Context, t models.Task) error {
	return saveSingle(e, ctx, store.CollectionTasks, t.ID, t)
}

func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	return e.deleteSingle(ctx, store.CollectionTasks, id)
}

func (e *Engine) SaveAudit(ctx context.Context, a models.InventoryAudit) error {
	return saveSingle(e, ctx, store.CollectionAudits, a.ID, a)
}

func (e *Engine) SaveDisposal(ctx context.Context, d models.ExpiredMedicineLog) error {
	return saveSingle(e, ctx, store.CollectionDisposals, d.ID, d)
}

func (e *Engine) SaveDeletionLog(ctx context.Context, d models.DeletionLog) error {
	return saveSingle(e, ctx, store.CollectionDeletionLogs, d.ID, d)
}

func (e *Engine) SaveDelivery(ctx context.Context, d models.Delivery) error {
	return saveSingle(e, ctx, store.CollectionDeliveries, d.ID, d)
}

// UpdateSettings upserts the singleton settings document.
func (e *Engine) UpdateSettings(ctx context.Context, s models.AppSettings) error {
	s.ID = models.SettingsDocID
	return saveSingle(e, ctx, store.CollectionSettings, models.SettingsDocID, s)
}
