package store

import (
	"context"
	"encoding/json"
)

// Collection names. Document ids are the entity's own id field; the
// settings collection holds a single fixed document.
const (
	CollectionMedicines    = "medicines"
	CollectionUsers        = "users"
	CollectionWithdrawals  = "withdrawals"
	CollectionOrders       = "orders"
	CollectionAlerts       = "alerts"
	CollectionTasks        = "tasks"
	CollectionAudits       = "audits"
	CollectionSettings     = "settings"
	CollectionDisposals    = "disposals"
	CollectionDeletionLogs = "deletionLogs"
	CollectionDeliveries   = "deliveries"
)

// Collections lists every collection the sync engine mirrors.
var Collections = []string{
	CollectionMedicines,
	CollectionUsers,
	CollectionWithdrawals,
	CollectionOrders,
	CollectionAlerts,
	CollectionTasks,
	CollectionAudits,
	CollectionSettings,
	CollectionDisposals,
	CollectionDeletionLogs,
	CollectionDeliveries,
}

// Document is one record in a collection, kept as raw JSON so the store
// stays schema-agnostic.
type Document struct {
	ID   string
	Data json.RawMessage
}

// ChangeHandler receives the full collection contents after every
// committed change. Deliveries are complete replacements, never diffs.
type ChangeHandler func(collection string, docs []Document)

// Unsubscribe cancels a subscription. Safe to call more than once.
type Unsubscribe func()

// CollectionStore is the hosted document database contract the sync
// engine consumes.
//
// Subscribe invokes handler immediately with current contents and again
// on every committed change from any client. A connectivity failure
// during subscribe produces no callback; the subscriber keeps its last
// known state. Write failures surface as errors to the caller with no
// automatic retry.
type CollectionStore interface {
	Subscribe(ctx context.Context, collection string, handler ChangeHandler) (Unsubscribe, error)
	SubscribeDocument(ctx context.Context, collection, docID string, handler ChangeHandler) (Unsubscribe, error)
	UpsertDocument(ctx context.Context, collection, docID string, data json.RawMessage) error
	DeleteDocument(ctx context.Context, collection, docID string) error
	BatchUpsert(ctx context.Context, collection string, docs []Document) error
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Close()
}
