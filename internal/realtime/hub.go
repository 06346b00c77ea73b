// Package realtime fans out proctoring and submission events to admin
// monitoring connections over WebSocket.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Broadcaster publishes monitoring events. Services depend on this interface
// so tests can capture events without a live hub.
type Broadcaster interface {
	Broadcast(event Event)
}

// NopBroadcaster discards all events.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(Event) {}

// Hub tracks connected admin monitors and fans events out to them.
// A slow client gets its buffer dropped rather than blocking the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With().Str("component", "realtime_hub").Logger(),
	}
}

// Broadcast delivers the event to every connected monitor. Events to clients
// with full buffers are dropped; monitoring is best-effort.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.log.Warn().Str("event", string(event.Type)).Msg("Dropping event for slow monitor client")
		}
	}
}

// Attach registers a connection and serves it until the peer disconnects.
// It blocks, so handlers call it as the tail of the upgrade flow.
func (h *Hub) Attach(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan Event, 32),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", count).Msg("Monitor client connected")

	done := make(chan struct{})
	go h.readLoop(c, done)
	h.writeLoop(c, done)

	h.mu.Lock()
	delete(h.clients, c)
	count = len(h.clients)
	h.mu.Unlock()
	conn.Close()
	h.log.Debug().Int("clients", count).Msg("Monitor client disconnected")
}

// readLoop drains inbound frames so control messages are processed, and
// signals done when the peer goes away. Monitors never send data frames.
func (h *Hub) readLoop(c *client, done chan<- struct{}) {
	defer close(done)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client, done <-chan struct{}) {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
