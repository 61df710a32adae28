package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// changeChannel is the Redis pub/sub channel carrying cross-instance
// change notifications. Payload format: "<instanceID>|<collection>".
const changeChannel = "medstock:changes"

// PostgresStore keeps every collection in a single documents table and
// fans change notifications out to other server instances over Redis
// pub/sub. With a nil Redis client it still works as a single-instance
// store; only cross-instance notification is lost.
type PostgresStore struct {
	pool       *pgxpool.Pool
	rdb        *redis.Client
	instanceID string

	mu        sync.Mutex
	nextSubID int
	subs      map[int]pgSub

	cancel context.CancelFunc
	done   chan struct{}
}

type pgSub struct {
	collection string
	docID      string
	handler    ChangeHandler
}

// NewPostgresStore creates the documents table if missing and begins
// listening for change notifications from other instances.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) (*PostgresStore, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			doc_id     TEXT NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, doc_id)
		)`)
	if err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &PostgresStore{
		pool:       pool,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		subs:       make(map[int]pgSub),
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	if rdb != nil {
		go s.listen(runCtx)
	} else {
		close(s.done)
		log.Println("[Store] Redis not configured, cross-instance notifications disabled")
	}
	return s, nil
}

// listen consumes change notifications published by other instances and
// re-delivers the affected collection to local subscribers. Messages
// carrying our own instance id are skipped; those changes were already
// delivered locally at write time.
func (s *PostgresStore) listen(ctx context.Context) {
	defer close(s.done)
	sub := s.rdb.Subscribe(ctx, changeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			origin, collection, found := strings.Cut(msg.Payload, "|")
			if !found || origin == s.instanceID {
				continue
			}
			s.deliver(ctx, collection)
		}
	}
}

func (s *PostgresStore) Subscribe(ctx context.Context, collection string, handler ChangeHandler) (Unsubscribe, error) {
	return s.subscribe(ctx, collection, "", handler)
}

func (s *PostgresStore) SubscribeDocument(ctx context.Context, collection, docID string, handler ChangeHandler) (Unsubscribe, error) {
	return s.subscribe(ctx, collection, docID, handler)
}

func (s *PostgresStore) subscribe(ctx context.Context, collection, docID string, handler ChangeHandler) (Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = pgSub{collection: collection, docID: docID, handler: handler}
	s.mu.Unlock()

	// Immediate delivery with current contents. A read failure here
	// means no callback; the subscriber keeps its prior state and will
	// catch up on the next delivered change.
	if docs, err := s.readDocs(ctx, collection, docID); err == nil {
		handler(collection, docs)
	} else {
		log.Printf("[Store] Initial read of %s failed: %v", collection, err)
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

func (s *PostgresStore) UpsertDocument(ctx context.Context, collection, docID string, data json.RawMessage) error {
	stamped, err := stampUpdatedAt(data)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, docID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, doc_id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`,
		collection, docID, stamped)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, docID, err)
	}
	s.notify(ctx, collection)
	return nil
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, collection, docID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, docID)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	s.notify(ctx, collection)
	return nil
}

func (s *PostgresStore) BatchUpsert(ctx context.Context, collection string, docs []Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("batch upsert %s: %w", collection, err)
	}
	defer tx.Rollback(ctx)

	for _, doc := range docs {
		stamped, err := stampUpdatedAt(doc.Data)
		if err != nil {
			return fmt.Errorf("batch upsert %s/%s: %w", collection, doc.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO documents (collection, doc_id, data, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (collection, doc_id)
			DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`,
			collection, doc.ID, stamped)
		if err != nil {
			return fmt.Errorf("batch upsert %s/%s: %w", collection, doc.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("batch upsert %s: %w", collection, err)
	}
	s.notify(ctx, collection)
	return nil
}

func (s *PostgresStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	return s.readDocs(ctx, collection, "")
}

// Close stops the notification listener. The pgx pool and Redis client
// are owned by the caller.
func (s *PostgresStore) Close() {
	s.cancel()
	<-s.done
}

func (s *PostgresStore) readDocs(ctx context.Context, collection, docID string) ([]Document, error) {
	query := `SELECT doc_id, data FROM documents WHERE collection = $1 ORDER BY doc_id`
	args := []interface{}{collection}
	if docID != "" {
		query = `SELECT doc_id, data FROM documents WHERE collection = $1 AND doc_id = $2`
		args = append(args, docID)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return docs, nil
}

// notify re-delivers the collection to local subscribers and tells other
// instances to do the same. Notification failure never fails the write.
func (s *PostgresStore) notify(ctx context.Context, collection string) {
	s.deliver(ctx, collection)
	if s.rdb == nil {
		return
	}
	payload := s.instanceID + "|" + collection
	if err := s.rdb.Publish(ctx, changeChannel, payload).Err(); err != nil {
		log.Printf("[Store] Publish change for %s failed: %v", collection, err)
	}
}

func (s *PostgresStore) deliver(ctx context.Context, collection string) {
	s.mu.Lock()
	var targets []pgSub
	for _, sub := range s.subs {
		if sub.collection == collection {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	for _, sub := range targets {
		docs, err := s.readDocs(ctx, collection, sub.docID)
		if err != nil {
			log.Printf("[Store] Deliver %s failed: %v", collection, err)
			continue
		}
		sub.handler(collection, docs)
	}
}

func stampUpdatedAt(data json.RawMessage) ([]byte, error) {
	fields := map[string]interface{}{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	return json.Marshal(fields)
}
