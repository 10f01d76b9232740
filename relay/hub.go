// Package relay forwards voice session states to connected orbs.
//
// The voice agent (or anything else that knows the session state) POSTs
// to /api/state, every orb listening on /ws/state gets the new value.
package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"voiceorb/misc"
)

var (
	infoLogger = misc.InfoLogger
	warnLogger = misc.WarnLogger
)

type Client struct {
	ID   uuid.UUID
	send chan []byte
}

func NewClient(buffer int) *Client {
	return &Client{
		ID:   uuid.New(),
		send: make(chan []byte, buffer),
	}
}

// Send is closed by the hub when the client is dropped.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub keeps the set of connected clients and fans messages out to them.
// Everything goes through Run's loop, so client bookkeeping needs no
// locking beyond the count snapshot.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu    sync.RWMutex
	count int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.setCount(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			infoLogger.Printf("orb %s connected (%d total)", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.setCount(len(h.clients))
			infoLogger.Printf("orb %s disconnected (%d remaining)", client.ID, len(h.clients))

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// too slow, drop it, it will reconnect
					close(client.send)
					delete(h.clients, client)
					warnLogger.Printf("dropped slow orb %s", client.ID)
				}
			}
			h.setCount(len(h.clients))
		}
	}
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) Unregister(ctx context.Context, c *Client) {
	select {
	case h.unregister <- c:
	case <-ctx.Done():
	}
}

// Broadcast never blocks, a full queue drops the message.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		warnLogger.Printf("broadcast queue full, dropping message")
		return false
	}
}

func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}
