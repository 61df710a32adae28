package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"medstock-backend/internal/metrics"
	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
	"medstock-backend/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin is enforced by the CORS layer; the socket carries no
	// cookies, auth is the token query parameter.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StateHandler struct {
	Engine *syncengine.Engine
}

func NewStateHandler(engine *syncengine.Engine) *StateHandler {
	return &StateHandler{Engine: engine}
}

func sanitizeSnapshot(snap models.StateSnapshot) models.StateSnapshot {
	users := make([]models.User, len(snap.Users))
	for i, u := range snap.Users {
		users[i] = u.Sanitized()
	}
	snap.Users = users
	return snap
}

// GetState returns the full application snapshot.
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, sanitizeSnapshot(h.Engine.Snapshot()))
}

// SyncNow forces a one-shot full read from the store.
func (h *StateHandler) SyncNow(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.SyncNow(r.Context()); err != nil {
		utils.Error(w, http.StatusBadGateway, "Sync failed: "+err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, sanitizeSnapshot(h.Engine.Snapshot()))
}

// StreamState upgrades to a WebSocket and pushes the sanitized snapshot
// on every change. The initial snapshot is sent immediately, so a
// client hydrates without a separate GET.
func (h *StateHandler) StreamState(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[State] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()

	changes, cancel := h.Engine.SubscribeChanges()
	defer cancel()

	// Reader goroutine: we never expect client messages, but reading
	// drains control frames and detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(sanitizeSnapshot(h.Engine.Snapshot()))
	}
	if err := send(); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-changes:
			if err := send(); err != nil {
				return
			}
		}
	}
}
