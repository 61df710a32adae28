package syncengine

import (
	"time"

	"medstock-backend/internal/models"
)

// Snapshot returns a copy of the full application state. Users carry
// their password hashes here; API surfaces must sanitize before
// responding.
func (e *Engine) Snapshot() models.StateSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := models.StateSnapshot{
		Medicines:    append([]models.Medicine(nil), e.medicines...),
		Users:        append([]models.User(nil), e.users...),
		Withdrawals:  append([]models.Withdrawal(nil), e.withdrawals...),
		Orders:       append([]models.Order(nil), e.orders...),
		Alerts:       append([]models.Alert(nil), e.alerts...),
		Tasks:        append([]models.Task(nil), e.tasks...),
		Audits:       append([]models.InventoryAudit(nil), e.audits...),
		Disposals:    append([]models.ExpiredMedicineLog(nil), e.disposals...),
		DeletionLogs: append([]models.DeletionLog(nil), e.deletionLogs...),
		Deliveries:   append([]models.Delivery(nil), e.deliveries...),
		Settings:     e.settings,
		IsSyncing:    e.inFlight > 0,
	}
	if !e.lastSync.IsZero() {
		snap.LastSyncTime = e.lastSync.UTC().Format(time.RFC3339)
	}
	snap.IsOnline = e.watcher == nil || e.watcher.Online()
	return snap
}

// Medicines returns a copy of the medicines snapshot.
func (e *Engine) Medicines() []models.Medicine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Medicine(nil), e.medicines...)
}

// Medicine looks a medicine up by id in the snapshot.
func (e *Engine) Medicine(id string) (models.Medicine, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, m := range e.medicines {
		if m.ID == id {
			return m, true
		}
	}
	return models.Medicine{}, false
}

// Users returns a copy of the users snapshot, hashes included.
func (e *Engine) Users() []models.User {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.User(nil), e.users...)
}

// User looks a user up by id.
func (e *Engine) User(id string) (models.User, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, u := range e.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// UserByUsername looks a user up by exact username.
func (e *Engine) UserByUsername(username string) (models.User, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, u := range e.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// Withdrawals returns a copy of the withdrawals snapshot.
func (e *Engine) Withdrawals() []models.Withdrawal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Withdrawal(nil), e.withdrawals...)
}

// Orders returns a copy of the orders snapshot.
func (e *Engine) Orders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Order(nil), e.orders...)
}

// Order looks an order up by id.
func (e *Engine) Order(id string) (models.Order, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, o := range e.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Alerts returns a copy of the alerts snapshot.
func (e *Engine) Alerts() []models.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Alert(nil), e.alerts...)
}

// Alert looks an alert up by id.
func (e *Engine) Alert(id string) (models.Alert, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, a := range e.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alert{}, false
}

// Tasks returns a copy of the tasks snapshot.
func (e *Engine) Tasks() []models.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.Task(nil), e.tasks...)
}

// Task looks a task up by id.
func (e *Engine) Task(id string) (models.Task, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, t := range e.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Audits returns a copy of the audits snapshot.
func (e *Engine) Audits() []models.InventoryAudit {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]models.InventoryAudit(nil), e.audits...)
}

// Settings returns the current settings document.
func (e *Engine) Settings() models.AppSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}
