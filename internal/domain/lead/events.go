package lead

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventLeadCreated = "lead.created"
	EventLeadUpdated = "lead.updated"

	writeWait = 10 * time.Second
)

// Event is pushed to every connected admin view. Seq increases by one per
// event so a client can drop anything older than what it already applied.
type Event struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	Lead Lead   `json:"lead"`
}

// Publisher receives lead changes. The service treats a nil Publisher as a no-op.
type Publisher interface {
	Publish(eventType string, lead Lead) Event
}

// Hub fans lead events out to websocket connections.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	seq   int64
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		log:   log,
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

// Publish assigns the next sequence number and writes the event to all
// connections. Both happen under the hub lock, so events reach every
// connection in seq order and each connection has a single writer.
func (h *Hub) Publish(eventType string, lead Lead) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	ev := Event{Type: eventType, Seq: h.seq, Lead: lead}

	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Debug("dropping websocket subscriber", zap.Error(err))
			_ = conn.Close()
			delete(h.conns, conn)
		}
	}
	return ev
}

// Seq returns the sequence number of the last published event.
func (h *Hub) Seq() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
