package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"dispatch-booking-service/internal/usecase"
	"dispatch-booking-service/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSnapshot        MessageType = "workflow_snapshot"
	MessageTypeWorkflowUpdated MessageType = "workflow_updated"
)

// Message represents a WebSocket message
type Message struct {
	Type       MessageType           `json:"type"`
	WorkflowID string                `json:"workflowId"`
	Workflow   *usecase.WorkflowView `json:"workflow,omitempty"`
	Timestamp  int64                 `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	workflowID string
}

// Hub fans workflow updates out to the connections watching each workflow
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	readers    sync.WaitGroup
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	logger     logger.Logger
}

// NewHub creates a new Hub
func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run starts the hub's main loop and blocks until ctx is done. It must
// only be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.workflowID] == nil {
				h.clients[client.workflowID] = make(map[*Client]bool)
			}
			h.clients[client.workflowID][client] = true
			h.mu.Unlock()
			h.logger.Debug("WebSocket client registered", "workflowId", client.workflowID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.workflowID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.workflowID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal websocket message", "error", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients[message.WorkflowID] {
				select {
				case client.send <- data:
				default:
					// slow consumer
					delete(h.clients[message.WorkflowID], client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a workflow view for everyone watching it. It never blocks;
// when the queue is full the update is dropped.
func (h *Hub) Publish(view usecase.WorkflowView) {
	msg := &Message{
		Type:       MessageTypeWorkflowUpdated,
		WorkflowID: view.ID,
		Workflow:   &view,
		Timestamp:  time.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("WebSocket broadcast queue full, dropping update", "workflowId", view.ID)
	}
}

// GetClientCount returns the number of clients watching a workflow
func (h *Hub) GetClientCount(workflowID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workflowID])
}

// ServeWS upgrades the request and subscribes it to workflow updates,
// starting with the given snapshot
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, snapshot usecase.WorkflowView) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "workflowId", snapshot.ID, "error", err)
		return
	}

	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		workflowID: snapshot.ID,
	}

	initial, err := json.Marshal(&Message{
		Type:       MessageTypeSnapshot,
		WorkflowID: snapshot.ID,
		Workflow:   &snapshot,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err == nil {
		client.send <- initial
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}
	h.readers.Add(1)
	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so control frames are processed. Clients
// have nothing to say over this channel.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		c.hub.readers.Done()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
