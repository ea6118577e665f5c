package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/DiscModGo/pkg/bot"
	"github.com/PancyStudios/DiscModGo/pkg/logger"
	"github.com/PancyStudios/DiscModGo/pkg/module"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// StreamModuleName is the name of the module returned by Hub.Module
const StreamModuleName = "Web Stream"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamClient is one connected websocket
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub fans dispatched events out to websocket clients
type Hub struct {
	clients    map[*streamClient]bool
	broadcast  chan []byte
	register   chan *streamClient
	unregister chan *streamClient
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new websocket hub; call Run to start it
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*streamClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("Cliente websocket conectado", "WebStream")

		case client := <-h.unregister:
			h.drop(client)
			logger.Debug("Cliente websocket desconectado", "WebStream")

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// too slow, drop the client
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) drop(client *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		close(client.send)
		delete(h.clients, client)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues env for every client; it never blocks the dispatcher
func (h *Hub) Broadcast(env bot.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo serializar %s: %v", env.Event, err), "WebStream")
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Module returns a module that streams every relayed event to the hub
func (h *Hub) Module() *module.Module {
	return bot.NewTap(StreamModuleName, h.Broadcast).
		SetDescription("Transmite los eventos del bot por websocket")
}

// HandleWebSocket upgrades the request and registers the client
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("WebSocket upgrade failed: %v", err), "WebStream")
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for close and pong frames
func (c *streamClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends one event per text frame and keeps the connection alive
func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
