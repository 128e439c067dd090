// ws/hub.go - Broadcast hub for auction events
package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 15 * time.Second
	sendBufferSize = 256
)

// Event is the wire envelope pushed to every connected client. Data carries
// at least the ids needed to decide what to refetch; delivery is best effort
// and clients reconcile by refetching full state on reconnect.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one connected dashboard (admin or team).
type Client struct {
	ID     string
	TeamID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans committed state changes out to all registered clients. It is an
// injected instance, created in main and handed to the services; register
// and unregister follow the connection lifecycle.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client %s connected. Total clients: %d", client.ID, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s disconnected. Total clients: %d", client.ID, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop it rather than stall the fan-out.
					close(client.send)
					delete(h.clients, client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Shutdown disconnects every client and stops the run loop.
func (h *Hub) Shutdown() {
	close(h.done)
}

// Broadcast marshals a typed event and queues it for every client. Callers
// invoke this inside their commit critical section, so per-auction event
// order matches commit order.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Event{Type: event, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// Register adds a client to the registry. After Shutdown it is a no-op so
// straggling connection handlers never block on a stopped run loop.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client; safe to call once per client, including
// after Shutdown.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
