package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types broadcast to dashboard clients.
const (
	TypePaymentAccepted  = "payment.accepted"
	TypeStudentUpdated   = "student.updated"
	TypeStructureUpdated = "structure.updated"
)

// Event is one change notification. It replaces the in-browser storage
// subscriber model with an explicit observer channel: services publish,
// connected dashboards refresh.
type Event struct {
	Type    string      `json:"type"`
	Session string      `json:"session,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// Hub fans events out to connected WebSocket clients. Publishing never
// blocks the caller: slow clients are dropped, not waited on.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The frontend is served from another origin in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Events] upgrade failed: %v", err)
		return
	}

	send := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeLoop(conn, send)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan []byte) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	// Clients never send application data; the read loop only detects
	// closure.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
	conn.Close()
}

// Publish broadcasts an event to every connected client. Best-effort:
// a client whose buffer is full is disconnected.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	var stale []*websocket.Conn
	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			stale = append(stale, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range stale {
		h.remove(conn)
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
