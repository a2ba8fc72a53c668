// Package notifyhub mirrors stream progress events to WebSocket monitor
// clients. It is an observer channel only: the SSE stream stays the source of
// truth for the requesting client.
package notifyhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/lunavein/tripo-relay-go/types"
)

// client pairs a connection with its write lock. gorilla/websocket allows at
// most one concurrent writer per connection, and Broadcast runs from every
// live stream handler at once.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.wmu.Lock()
	defer cl.wmu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub holds WebSocket connections and broadcasts stream notices to all clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// New creates a new progress hub.
func New() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

// Register adds a WebSocket connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Broadcast sends the notice as JSON to all registered connections. Write
// failures are ignored; a dead client is dropped by its own read loop.
func (h *Hub) Broadcast(notice *types.StreamNotice) {
	if notice == nil {
		return
	}
	payload, err := sonic.Marshal(notice)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		_ = cl.write(payload)
	}
}
