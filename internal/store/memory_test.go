package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

type recorder struct {
	mu         sync.Mutex
	deliveries [][]Document
}

func (r *recorder) handle(_ string, docs []Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, docs)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}

func (r *recorder) last() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.deliveries) == 0 {
		return nil
	}
	return r.deliveries[len(r.deliveries)-1]
}

func TestSubscribeDeliversImmediately(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.UpsertDocument(ctx, "medicines", "m-1", json.RawMessage(`{"id":"m-1","name":"Aspirin"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var rec recorder
	unsub, err := s.Subscribe(ctx, "medicines", rec.handle)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if rec.count() != 1 {
		t.Fatalf("expected immediate delivery, got %d", rec.count())
	}
	if docs := rec.last(); len(docs) != 1 || docs[0].ID != "m-1" {
		t.Fatalf("unexpected initial contents: %+v", docs)
	}
}

func TestWriteDeliversFullCollection(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var rec recorder
	unsub, _ := s.Subscribe(ctx, "orders", rec.handle)
	defer unsub()

	if err := s.BatchUpsert(ctx, "orders", []Document{
		{ID: "o-1", Data: json.RawMessage(`{"id":"o-1"}`)},
		{ID: "o-2", Data: json.RawMessage(`{"id":"o-2"}`)},
	}); err != nil {
		t.Fatalf("batch upsert: %v", err)
	}

	if docs := rec.last(); len(docs) != 2 {
		t.Fatalf("expected full collection of 2, got %+v", docs)
	}
}

func TestUpsertMergesFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.UpsertDocument(ctx, "medicines", "m-1", json.RawMessage(`{"id":"m-1","name":"Aspirin","currentStock":10}`))
	s.UpsertDocument(ctx, "medicines", "m-1", json.RawMessage(`{"currentStock":7}`))

	docs, err := s.GetAll(ctx, "medicines")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	var got struct {
		Name         string `json:"name"`
		CurrentStock int    `json:"currentStock"`
		UpdatedAt    string `json:"updatedAt"`
	}
	if err := json.Unmarshal(docs[0].Data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "Aspirin" || got.CurrentStock != 7 {
		t.Fatalf("expected merged document, got %+v", got)
	}
	if got.UpdatedAt == "" {
		t.Fatal("expected server-assigned updatedAt")
	}
}

func TestDeleteRemovesDocument(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.UpsertDocument(ctx, "tasks", "t-1", json.RawMessage(`{"id":"t-1"}`))
	if err := s.DeleteDocument(ctx, "tasks", "t-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	docs, _ := s.GetAll(ctx, "tasks")
	if len(docs) != 0 {
		t.Fatalf("expected empty collection, got %+v", docs)
	}
}

func TestDisconnectedWritesFailWithoutDelivery(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var rec recorder
	unsub, _ := s.Subscribe(ctx, "alerts", rec.handle)
	defer unsub()
	before := rec.count()

	s.SetConnected(false)
	if err := s.UpsertDocument(ctx, "alerts", "a-1", json.RawMessage(`{"id":"a-1"}`)); err == nil {
		t.Fatal("expected write to fail while disconnected")
	}
	if rec.count() != before {
		t.Fatal("expected no delivery while disconnected")
	}
}

func TestReconnectRedelivers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.UpsertDocument(ctx, "users", "u-1", json.RawMessage(`{"id":"u-1"}`))

	var rec recorder
	unsub, _ := s.Subscribe(ctx, "users", rec.handle)
	defer unsub()

	s.SetConnected(false)
	before := rec.count()
	s.SetConnected(true)
	if rec.count() != before+1 {
		t.Fatalf("expected one re-delivery on reconnect, got %d new", rec.count()-before)
	}
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var rec recorder
	unsub, _ := s.Subscribe(ctx, "tasks", rec.handle)
	unsub()
	unsub() // safe to call twice

	before := rec.count()
	s.UpsertDocument(ctx, "tasks", "t-1", json.RawMessage(`{"id":"t-1"}`))
	if rec.count() != before {
		t.Fatal("expected no delivery after unsubscribe")
	}
}

func TestSubscribeDocumentTracksSingleton(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var rec recorder
	unsub, _ := s.SubscribeDocument(ctx, "settings", "app_settings", rec.handle)
	defer unsub()

	s.UpsertDocument(ctx, "settings", "app_settings", json.RawMessage(`{"id":"app_settings","appName":"MedStock"}`))
	s.UpsertDocument(ctx, "settings", "other", json.RawMessage(`{"id":"other"}`))

	docs := rec.last()
	if len(docs) != 1 || docs[0].ID != "app_settings" {
		t.Fatalf("expected only the singleton document, got %+v", docs)
	}
}
