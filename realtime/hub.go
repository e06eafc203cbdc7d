package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Envelope is the wire shape of every outbound socket event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected socket bound to a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

// close shuts the client down exactly once: marks it closed, closes the
// Send channel and the connection. Safe to call from any goroutine.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Conn != nil {
		c.Conn.Close()
	}
}

// trySend queues data for the writePump without blocking. Returns false
// when the client is closed or its buffer is full. The closed flag is
// checked under the same lock close holds, so this never races a send
// onto a closed channel.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

type directMsg struct {
	UserID string
	Data   []byte
}

type presenceProbe struct {
	userID string
	reply  chan bool
}

// Hub tracks which users are connected in this process and routes events
// to them. One client per user; a reconnect replaces the old socket.
// All map access happens on the Run goroutine.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	direct     chan directMsg
	presence   chan presenceProbe
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMsg),
		presence:   make(chan presenceProbe),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if old, ok := h.clients[c.UserID]; ok {
				old.close()
			}
			h.clients[c.UserID] = c

		case c := <-h.unregister:
			if cur, ok := h.clients[c.UserID]; ok && cur == c {
				delete(h.clients, c.UserID)
			}
			c.close()

		case m := <-h.direct:
			if c, ok := h.clients[m.UserID]; ok {
				if !c.trySend(m.Data) {
					// Slow consumer, drop the connection
					delete(h.clients, m.UserID)
					c.close()
				}
			}

		case p := <-h.presence:
			_, ok := h.clients[p.userID]
			p.reply <- ok

		case <-h.done:
			for userID, c := range h.clients {
				c.close()
				delete(h.clients, userID)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// registerClient hands a client to the Run goroutine. Returns immediately
// when the hub has stopped so connections open at shutdown cannot leak
// their goroutines.
func (h *Hub) registerClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// unregisterClient mirrors registerClient for the disconnect path.
func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.close()
	}
}

// EmitToUser sends one event to a connected user. Offline users are
// silently skipped; delivery is best-effort.
func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("realtime: marshal %s failed: %v", event, err)
		return
	}
	select {
	case h.direct <- directMsg{UserID: userID, Data: payload}:
	case <-h.done:
	}
}

// Online reports whether the user has a socket connected to this process.
func (h *Hub) Online(userID string) bool {
	probe := presenceProbe{userID: userID, reply: make(chan bool, 1)}
	select {
	case h.presence <- probe:
		return <-probe.reply
	case <-h.done:
		return false
	}
}
