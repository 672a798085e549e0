// Package ws pushes inventory events to connected websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-inventory-console/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	TypeStockUpdate     = "stock_update"
	ActionTransferred   = "product_transferred"
	broadcastBufferSize = 64
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Event is the JSON message sent to every client.
type Event struct {
	Type          string    `json:"type"`
	Action        string    `json:"action"`
	ProductID     uint      `json:"productId"`
	ToWarehouseID uint      `json:"toWarehouseId"`
	Location      string    `json:"location,omitempty"`
	User          string    `json:"user,omitempty"`
	Message       string    `json:"message"`
	At            time.Time `json:"at"`
}

type Hub struct {
	Clients    map[Conn]bool
	Register   chan Conn
	Unregister chan Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	logger     *zap.Logger

	// done is closed once Run has returned.
	done     chan struct{}
	doneOnce sync.Once
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]bool),
		Register:   make(chan Conn),
		Unregister: make(chan Conn),
		Broadcast:  make(chan []byte, broadcastBufferSize),
		logger:     logger.OrNop(log),
		done:       make(chan struct{}),
	}
}

// Run serves the register, unregister and broadcast channels until ctx is
// done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.logger.Debug("WS client connected", zap.Int("clients", n))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues ev for broadcast. It never blocks; when the queue is full the
// event is dropped.
func (h *Hub) Publish(ev Event) {
	if ev.Type == "" {
		ev.Type = TypeStockUpdate
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode WS event", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("WS broadcast queue full, event dropped", zap.String("action", ev.Action))
	}
}

// RequireUpgrade rejects plain HTTP requests on the websocket route.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// attach hands conn to the run loop. It reports false, after closing conn,
// when the hub has already stopped.
func (h *Hub) attach(conn Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		conn.Close()
		return false
	}
}

// detach removes conn unless the hub has stopped, in which case Run already
// closed it.
func (h *Hub) detach(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Handler registers each connection with the hub and keeps it open until the
// client goes away.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.attach(c) {
			return
		}
		defer h.detach(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
