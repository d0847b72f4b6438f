package slotws

import (
	"context"
	"encoding/json"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"go.uber.org/zap"
)

// Hub fans slot events out to clients watching the affected coach.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.SlotEvent
	logger     *zap.Logger
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	coachIDs []uuid.UUID
	send     chan []byte
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.SlotEvent, 64),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, coachIDs []uuid.UUID) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		coachIDs: coachIDs,
		send:     make(chan []byte, 32),
	}
}

// Run owns the client registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					h.drop(client)
				}
			}
			return
		case client := <-h.register:
			for _, coachID := range client.coachIDs {
				set, ok := h.clients[coachID]
				if !ok {
					set = make(map[*Client]struct{})
					h.clients[coachID] = set
				}
				set[client] = struct{}{}
			}
		case client := <-h.unregister:
			h.drop(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues event for delivery without blocking; when the queue is full
// the event is dropped.
func (h *Hub) Publish(event models.SlotEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("slot event dropped",
			zap.String("slot_id", event.SlotID.String()),
			zap.String("coach_id", event.CoachID.String()),
		)
	}
}

func (h *Hub) deliver(event models.SlotEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode slot event", zap.Error(err))
		return
	}

	for client := range h.clients[event.CoachID] {
		select {
		case client.send <- payload:
		default:
			h.drop(client)
		}
	}
}

// drop removes client from every coach it watches and closes its queue once.
func (h *Hub) drop(client *Client) {
	registered := false
	for _, coachID := range client.coachIDs {
		set, ok := h.clients[coachID]
		if !ok {
			continue
		}
		if _, exists := set[client]; exists {
			delete(set, client)
			registered = true
		}
		if len(set) == 0 {
			delete(h.clients, coachID)
		}
	}
	if registered {
		close(client.send)
	}
}

// ReadPump drains inbound frames so closes and pings are noticed; clients
// have nothing to say on this stream.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
