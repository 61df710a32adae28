// Package syncengine maintains the authoritative in-memory snapshot of
// every entity collection, mirrored into the local cache and kept live
// by collection-store subscriptions. All writes go through its mutators.
package syncengine

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"medstock-backend/internal/alerting"
	"medstock-backend/internal/connectivity"
	"medstock-backend/internal/localcache"
	"medstock-backend/internal/metrics"
	"medstock-backend/internal/models"
	"medstock-backend/internal/store"
)

// Collection sync states.
type collState int

const (
	stateUninitialized collState = iota
	stateSubscribed
	stateLive
)

// Engine bridges the local cache and the remote collection store. One
// instance is constructed per process and passed by reference to every
// consumer; the snapshot is read-shared, the mutators are the only
// write path.
type Engine struct {
	store   store.CollectionStore
	cache   *localcache.Cache
	watcher *connectivity.Watcher

	mu           sync.RWMutex
	medicines    []models.Medicine
	users        []models.User
	withdrawals  []models.Withdrawal
	orders       []models.Order
	alerts       []models.Alert
	tasks        []models.Task
	audits       []models.InventoryAudit
	disposals    []models.ExpiredMedicineLog
	deletionLogs []models.DeletionLog
	deliveries   []models.Delivery
	settings     models.AppSettings

	states   map[string]collState
	inFlight int
	lastSync time.Time
	unsubs   []store.Unsubscribe

	listenerID int
	listeners  map[int]chan struct{}
}

// New builds an engine seeded from the local cache. Collections with no
// cached value start empty; settings falls back to the defaults.
// Subscriptions are not established until Start.
func New(st store.CollectionStore, cache *localcache.Cache, watcher *connectivity.Watcher) *Engine {
	e := &Engine{
		store:     st,
		cache:     cache,
		watcher:   watcher,
		states:    make(map[string]collState),
		listeners: make(map[int]chan struct{}),
		settings:  models.DefaultSettings(),
	}
	for _, c := range store.Collections {
		e.states[c] = stateUninitialized
	}
	e.seedFromCache()

	if watcher != nil {
		watcher.OnChange(func(online bool) {
			if online {
				go e.Resync(context.Background())
			}
		})
	}
	return e
}

func (e *Engine) seedFromCache() {
	if e.cache == nil {
		return
	}
	e.cache.Get(store.CollectionMedicines, &e.medicines)
	e.cache.Get(store.CollectionUsers, &e.users)
	e.cache.Get(store.CollectionWithdrawals, &e.withdrawals)
	e.cache.Get(store.CollectionOrders, &e.orders)
	e.cache.Get(store.CollectionAlerts, &e.alerts)
	e.cache.Get(store.CollectionTasks, &e.tasks)
	e.cache.Get(store.CollectionAudits, &e.audits)
	e.cache.Get(store.CollectionDisposals, &e.disposals)
	e.cache.Get(store.CollectionDeletionLogs, &e.deletionLogs)
	e.cache.Get(store.CollectionDeliveries, &e.deliveries)
	var s models.AppSettings
	if e.cache.Get(store.CollectionSettings, &s) && s.ID != "" {
		e.settings = s
	}
}

// Start establishes the live subscription for every collection. The
// first delivered payload (even an empty one) replaces the in-memory
// snapshot wholesale and writes it to the cache; every later delivery
// repeats that.
func (e *Engine) Start(ctx context.Context) error {
	for _, c := range store.Collections {
		collection := c
		var (
			unsub store.Unsubscribe
			err   error
		)
		e.setState(collection, stateSubscribed)
		if collection == store.CollectionSettings {
			unsub, err = e.store.SubscribeDocument(ctx, collection, models.SettingsDocID, e.onDelivery)
		} else {
			unsub, err = e.store.Subscribe(ctx, collection, e.onDelivery)
		}
		if err != nil {
			e.Close()
			return err
		}
		e.unsubs = append(e.unsubs, unsub)
	}
	return nil
}

// Close cancels all subscriptions.
func (e *Engine) Close() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
}

func (e *Engine) setState(collection string, s collState) {
	e.mu.Lock()
	e.states[collection] = s
	e.mu.Unlock()
}

// Live reports whether the collection has received at least one
// delivery since Start.
func (e *Engine) Live(collection string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.states[collection] == stateLive
}

// onDelivery replaces a collection snapshot with the delivered full
// contents. The medicines collection additionally triggers a derived
// alerting pass against the previous snapshot.
func (e *Engine) onDelivery(collection string, docs []store.Document) {
	var prevMedicines []models.Medicine

	e.mu.Lock()
	switch collection {
	case store.CollectionMedicines:
		prevMedicines = e.medicines
		e.medicines = decodeDocs[models.Medicine](docs)
	case store.CollectionUsers:
		e.users = decodeDocs[models.User](docs)
	case store.CollectionWithdrawals:
		e.withdrawals = decodeDocs[models.Withdrawal](docs)
	case store.CollectionOrders:
		e.orders = decodeDocs[models.Order](docs)
	case store.CollectionAlerts:
		e.alerts = decodeDocs[models.Alert](docs)
	case store.CollectionTasks:
		e.tasks = decodeDocs[models.Task](docs)
	case store.CollectionAudits:
		e.audits = decodeDocs[models.InventoryAudit](docs)
	case store.CollectionDisposals:
		e.disposals = decodeDocs[models.ExpiredMedicineLog](docs)
	case store.CollectionDeletionLogs:
		e.deletionLogs = decodeDocs[models.DeletionLog](docs)
	case store.CollectionDeliveries:
		e.deliveries = decodeDocs[models.Delivery](docs)
	case store.CollectionSettings:
		settings := decodeDocs[models.AppSettings](docs)
		if len(settings) > 0 && settings[0].ID != "" {
			e.settings = settings[0]
		} else {
			e.settings = models.DefaultSettings()
		}
	default:
		e.mu.Unlock()
		log.Printf("[Sync] Delivery for unknown collection %s ignored", collection)
		return
	}
	e.states[collection] = stateLive
	e.mu.Unlock()

	e.writeCache(collection)
	e.notifyListeners()

	if collection == store.CollectionMedicines {
		e.runAlertPass(prevMedicines)
	}
}

func (e *Engine) writeCache(collection string) {
	if e.cache == nil {
		return
	}
	e.mu.RLock()
	var value interface{}
	switch collection {
	case store.CollectionMedicines:
		value = e.medicines
	case store.CollectionUsers:
		value = e.users
	case store.CollectionWithdrawals:
		value = e.withdrawals
	case store.CollectionOrders:
		value = e.orders
	case store.CollectionAlerts:
		value = e.alerts
	case store.CollectionTasks:
		value = e.tasks
	case store.CollectionAudits:
		value = e.audits
	case store.CollectionDisposals:
		value = e.disposals
	case store.CollectionDeletionLogs:
		value = e.deletionLogs
	case store.CollectionDeliveries:
		value = e.deliveries
	case store.CollectionSettings:
		value = e.settings
	}
	e.mu.RUnlock()
	e.cache.Set(collection, value)
}

// runAlertPass derives alerts and reorders from the medicines
// transition and writes them through single-document upserts, never a
// batch replace, so concurrently created alerts from other instances
// are not clobbered. Write failures are logged and dropped.
func (e *Engine) runAlertPass(prev []models.Medicine) {
	e.mu.RLock()
	curr := e.medicines
	alerts := e.alerts
	orders := e.orders
	e.mu.RUnlock()

	result := alerting.ComputePass(prev, curr, alerts, orders, time.Now())
	if len(result.Alerts) == 0 && len(result.Orders) == 0 {
		return
	}

	go func() {
		ctx := context.Background()
		for _, a := range result.Alerts {
			if err := e.SaveAlert(ctx, a); err != nil {
				log.Printf("[Sync] Derived alert write failed: %v", err)
				continue
			}
			metrics.DerivedRecordsTotal.WithLabelValues("alert").Inc()
		}
		for _, o := range result.Orders {
			if err := e.SaveOrder(ctx, o); err != nil {
				log.Printf("[Sync] Auto-reorder write failed: %v", err)
				continue
			}
			metrics.DerivedRecordsTotal.WithLabelValues("order").Inc()
		}
	}()
}

// Resync pushes the local in-memory state to the store wholesale, in
// fixed collection order. Last writer wins: records with the same id
// written by another client since we went offline are overwritten with
// no merge or conflict detection.
func (e *Engine) Resync(ctx context.Context) {
	log.Println("[Sync] Resyncing local state to store")
	e.beginWrite()
	defer e.endWrite()

	e.mu.RLock()
	medicines := e.medicines
	users := e.users
	withdrawals := e.withdrawals
	orders := e.orders
	alerts := e.alerts
	tasks := e.tasks
	settings := e.settings
	e.mu.RUnlock()

	push := func(collection string, docs []store.Document) {
		if len(docs) == 0 {
			return
		}
		if err := e.store.BatchUpsert(ctx, collection, docs); err != nil {
			log.Printf("[Sync] Resync of %s failed: %v", collection, err)
		}
	}
	push(store.CollectionMedicines, encodeDocs(medicines, func(m models.Medicine) string { return m.ID }))
	push(store.CollectionUsers, encodeDocs(users, func(u models.User) string { return u.ID }))
	push(store.CollectionWithdrawals, encodeDocs(withdrawals, func(w models.Withdrawal) string { return w.ID }))
	push(store.CollectionOrders, encodeDocs(orders, func(o models.Order) string { return o.ID }))
	push(store.CollectionAlerts, encodeDocs(alerts, func(a models.Alert) string { return a.ID }))
	push(store.CollectionTasks, encodeDocs(tasks, func(t models.Task) string { return t.ID }))
	if data, err := json.Marshal(settings); err == nil {
		if err := e.store.UpsertDocument(ctx, store.CollectionSettings, models.SettingsDocID, data); err != nil {
			log.Printf("[Sync] Resync of settings failed: %v", err)
		}
	}

	e.mu.Lock()
	e.lastSync = time.Now()
	e.mu.Unlock()
	e.notifyListeners()
}

// SyncNow performs a one-shot full read of the primary collections and
// replaces the snapshots, for manual refresh without waiting for a
// subscription delivery.
func (e *Engine) SyncNow(ctx context.Context) error {
	for _, collection := range []string{
		store.CollectionMedicines,
		store.CollectionUsers,
		store.CollectionWithdrawals,
		store.CollectionOrders,
		store.CollectionAlerts,
		store.CollectionTasks,
		store.CollectionSettings,
	} {
		docs, err := e.store.GetAll(ctx, collection)
		if err != nil {
			return err
		}
		if collection == store.CollectionSettings {
			// GetAll returns the whole collection; keep only the
			// singleton document.
			kept := docs[:0]
			for _, d := range docs {
				if d.ID == models.SettingsDocID {
					kept = append(kept, d)
				}
			}
			docs = kept
		}
		e.onDelivery(collection, docs)
	}
	e.mu.Lock()
	e.lastSync = time.Now()
	e.mu.Unlock()
	e.notifyListeners()
	return nil
}

// beginWrite and endWrite bracket every store write so IsSyncing
// reflects in-flight mutations, success or failure.
func (e *Engine) beginWrite() {
	e.mu.Lock()
	e.inFlight++
	e.mu.Unlock()
	e.notifyListeners()
}

func (e *Engine) endWrite() {
	e.mu.Lock()
	e.inFlight--
	e.mu.Unlock()
	e.notifyListeners()
}

// IsSyncing reports whether any store write is in flight.
func (e *Engine) IsSyncing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inFlight > 0
}

// IsOnline reports the connectivity watcher's state; without a watcher
// the engine is considered online.
func (e *Engine) IsOnline() bool {
	if e.watcher == nil {
		return true
	}
	return e.watcher.Online()
}

// SubscribeChanges returns a channel that receives a tick after every
// snapshot change, plus a cancel func. Ticks coalesce; a slow consumer
// sees at least one tick for any burst of changes.
func (e *Engine) SubscribeChanges() (<-chan struct{}, func()) {
	e.mu.Lock()
	id := e.listenerID
	e.listenerID++
	ch := make(chan struct{}, 1)
	e.listeners[id] = ch
	e.mu.Unlock()

	return ch, func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Engine) notifyListeners() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, ch := range e.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// decodeDocs unmarshals raw documents into typed records, skipping
// entries that fail to parse.
func decodeDocs[T any](docs []store.Document) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			log.Printf("[Sync] Skipping unparseable document %s: %v", doc.ID, err)
			continue
		}
		out = append(out, item)
	}
	return out
}

// encodeDocs marshals typed records into raw documents keyed by id.
func encodeDocs[T any](items []T, id func(T) string) []store.Document {
	out := make([]store.Document, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			log.Printf("[Sync] Skipping unserializable record: %v", err)
			continue
		}
		out = append(out, store.Document{ID: id(item), Data: data})
	}
	return out
}
