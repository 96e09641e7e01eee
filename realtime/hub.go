package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// Event names pushed to client sessions.
const (
	EventNotificationInsert = "notification_insert"
	EventReadStateUpdate    = "read_state_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected session. Outbound messages go through a buffered
// send channel drained by WritePump, so a publish never blocks on a socket.
type Client struct {
	ID     uuid.UUID
	UserID uint
	Send   chan []byte
	conn   *websocket.Conn
}

func NewClient(conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Send:   make(chan []byte, 32),
		conn:   conn,
	}
}

// WritePump forwards queued messages to the socket until Send is closed.
func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("realtime: write to client %s: %v", c.ID, err)
			return
		}
	}
}

// Hub tracks connected clients and fans events out to them. Delivery is
// at-least-once and unordered relative to direct fetches; a client that cannot
// keep up is dropped and must re-fetch on reconnect.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	utils.InfoLogger.Printf("realtime: client %s registered for user %d (%d connected)", c.ID, c.UserID, len(h.clients))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// PublishAll sends to every connected session.
func (h *Hub) PublishAll(msg Message) {
	h.publish(msg, func(*Client) bool { return true })
}

// PublishToUser sends to every session of one user.
func (h *Hub) PublishToUser(userID uint, msg Message) {
	h.publish(msg, func(c *Client) bool { return c.UserID == userID })
}

func (h *Hub) publish(msg Message, match func(*Client) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("realtime: marshal %s event: %v", msg.Event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.Send <- data:
		default:
			// Slow consumer; it will re-fetch on reconnect.
			utils.ErrorLogger.Printf("realtime: dropping slow client %s (user %d)", c.ID, c.UserID)
			h.drop(c)
		}
	}
}
