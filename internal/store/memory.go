package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrDisconnected is returned by writes while the store is unreachable.
var ErrDisconnected = errors.New("store: not connected")

// MemoryStore is an in-process CollectionStore. It backs the server when
// no database is configured and doubles as the test seam: SetConnected
// simulates a network partition, during which writes fail and no
// deliveries reach subscribers.
type MemoryStore struct {
	mu          sync.Mutex
	connected   bool
	collections map[string]map[string]json.RawMessage
	nextSubID   int
	subs        map[int]memorySub
	now         func() time.Time
}

type memorySub struct {
	collection string
	docID      string // empty for whole-collection subscriptions
	handler    ChangeHandler
}

// NewMemoryStore returns an empty, connected store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		connected:   true,
		collections: make(map[string]map[string]json.RawMessage),
		subs:        make(map[int]memorySub),
		now:         time.Now,
	}
}

// SetConnected toggles simulated connectivity. Reconnecting re-delivers
// every subscribed collection, matching a live store's behavior after a
// partition heals.
func (s *MemoryStore) SetConnected(connected bool) {
	s.mu.Lock()
	was := s.connected
	s.connected = connected
	var pending []func()
	if connected && !was {
		for _, sub := range s.subs {
			pending = append(pending, s.deliveryFor(sub))
		}
	}
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
}

// deliveryFor builds the callback invocation for one subscriber from
// current contents. Caller must hold the lock; the returned func must be
// invoked without it.
func (s *MemoryStore) deliveryFor(sub memorySub) func() {
	var docs []Document
	if sub.docID == "" {
		docs = s.snapshotLocked(sub.collection)
	} else if data, ok := s.collections[sub.collection][sub.docID]; ok {
		docs = []Document{{ID: sub.docID, Data: append(json.RawMessage(nil), data...)}}
	}
	handler, collection := sub.handler, sub.collection
	return func() { handler(collection, docs) }
}

func (s *MemoryStore) snapshotLocked(collection string) []Document {
	coll := s.collections[collection]
	docs := make([]Document, 0, len(coll))
	for id, data := range coll {
		docs = append(docs, Document{ID: id, Data: append(json.RawMessage(nil), data...)})
	}
	return docs
}

func (s *MemoryStore) Subscribe(_ context.Context, collection string, handler ChangeHandler) (Unsubscribe, error) {
	return s.subscribe(collection, "", handler)
}

func (s *MemoryStore) SubscribeDocument(_ context.Context, collection, docID string, handler ChangeHandler) (Unsubscribe, error) {
	return s.subscribe(collection, docID, handler)
}

func (s *MemoryStore) subscribe(collection, docID string, handler ChangeHandler) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	sub := memorySub{collection: collection, docID: docID, handler: handler}
	s.subs[id] = sub
	var initial func()
	if s.connected {
		initial = s.deliveryFor(sub)
	}
	s.mu.Unlock()

	// Immediate delivery with current contents; skipped while
	// partitioned, like a real client that cannot reach the backend.
	if initial != nil {
		initial()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *MemoryStore) UpsertDocument(_ context.Context, collection, docID string, data json.RawMessage) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return ErrDisconnected
	}
	if err := s.upsertLocked(collection, docID, data); err != nil {
		s.mu.Unlock()
		return err
	}
	pending := s.pendingDeliveriesLocked(collection)
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
	return nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, collection, docID string) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return ErrDisconnected
	}
	if coll, ok := s.collections[collection]; ok {
		delete(coll, docID)
	}
	pending := s.pendingDeliveriesLocked(collection)
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
	return nil
}

func (s *MemoryStore) BatchUpsert(_ context.Context, collection string, docs []Document) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return ErrDisconnected
	}
	for _, doc := range docs {
		if err := s.upsertLocked(collection, doc.ID, doc.Data); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	pending := s.pendingDeliveriesLocked(collection)
	s.mu.Unlock()

	for _, fire := range pending {
		fire()
	}
	return nil
}

func (s *MemoryStore) GetAll(_ context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrDisconnected
	}
	return s.snapshotLocked(collection), nil
}

func (s *MemoryStore) Close() {}

// upsertLocked merges top-level fields of data into the stored document
// and stamps updatedAt, matching the merge-upsert contract.
func (s *MemoryStore) upsertLocked(collection, docID string, data json.RawMessage) error {
	merged := map[string]interface{}{}
	if existing, ok := s.collections[collection][docID]; ok {
		if err := json.Unmarshal(existing, &merged); err != nil {
			merged = map[string]interface{}{}
		}
	}
	incoming := map[string]interface{}{}
	if err := json.Unmarshal(data, &incoming); err != nil {
		return err
	}
	for k, v := range incoming {
		merged[k] = v
	}
	merged["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)

	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]json.RawMessage)
	}
	s.collections[collection][docID] = out
	return nil
}

func (s *MemoryStore) pendingDeliveriesLocked(collection string) []func() {
	var pending []func()
	for _, sub := range s.subs {
		if sub.collection == collection {
			pending = append(pending, s.deliveryFor(sub))
		}
	}
	return pending
}
