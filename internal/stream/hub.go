// Package stream publishes simulation frames to websocket subscribers. It is
// a read-only telemetry feed: clients cannot influence the simulation.
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/VoidMesh/horizon/internal/sim"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// DefaultSendBuffer is the number of messages a client may lag behind
	// before it is dropped.
	DefaultSendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to websocket clients. It implements sim.Renderer and
// sim.HUD and never blocks the simulation: a client whose buffer is full is
// disconnected.
type Hub struct {
	logger     *log.Logger
	sendBuffer int

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  map[MessageType]json.RawMessage
	frame   uint64
	closed  bool
}

// NewHub creates a hub. A nil logger uses the default logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger:     logger,
		sendBuffer: DefaultSendBuffer,
		clients:    make(map[*client]struct{}),
		latest:     make(map[MessageType]json.RawMessage),
	}
}

// Render publishes the frame's pose and, when the mesh changed since the
// last upload, its terrain.
func (h *Hub) Render(frame sim.Frame) error {
	h.mu.Lock()
	h.frame = frame.Number
	h.mu.Unlock()

	if frame.Mesh.Dirty || !h.has(TypeTerrain) {
		if err := h.publish(TypeTerrain, frame.Number, NewTerrain(frame.Mesh)); err != nil {
			return err
		}
	}
	return h.publish(TypePose, frame.Number, NewPose(frame))
}

// Show publishes HUD text tagged with the last rendered frame.
func (h *Hub) Show(text string) error {
	h.mu.RLock()
	frame := h.frame
	h.mu.RUnlock()
	return h.publish(TypeHUD, frame, HUD{Text: text})
}

func (h *Hub) has(typ MessageType) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.latest[typ]
	return ok
}

func (h *Hub) publish(typ MessageType, frame uint64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", typ, err)
	}
	msg, err := json.Marshal(Envelope{Type: typ, Frame: frame, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", typ, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[typ] = data
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping slow stream client", "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
	return nil
}

// Latest returns the payload of the most recent message of typ.
func (h *Hub) Latest(typ MessageType) (json.RawMessage, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, ok := h.latest[typ]
	return data, ok
}

// Frame returns the number of the last rendered frame.
func (h *Hub) Frame() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and streams messages until
// the client disconnects or the hub is closed. New clients first receive the
// latest cached terrain, pose and HUD messages.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.sendBuffer+len(replayOrder))}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	for _, typ := range replayOrder {
		if data, ok := h.latest[typ]; ok {
			msg, err := json.Marshal(Envelope{Type: typ, Frame: h.frame, Data: data})
			if err == nil {
				c.send <- msg
			}
		}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Stream client connected", "remote", conn.RemoteAddr().String())

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client input and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Stream client read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
