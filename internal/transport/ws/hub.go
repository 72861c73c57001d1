package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgEffects  MessageType = "effects"
	MsgDeferred MessageType = "deferred"
	MsgError    MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection is the live socket of one page session
type Connection struct {
	SessionID string
	Send      chan []byte
}

// BroadcastMessage is a message queued for delivery. With Conn set it is only
// delivered while Conn is still the session's connection.
type BroadcastMessage struct {
	SessionID string
	Conn      *Connection
	Message   *Message
}

// Hub tracks one connection per session. A single goroutine owns every Send
// channel: it alone writes to and closes them.
type Hub struct {
	conns map[string]*Connection
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
	stopped    chan struct{}

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok {
				// a reload or second tab takes the session over
				close(existing.Send)
			}
			h.conns[conn.SessionID] = conn
			h.mu.Unlock()
			h.logger.Debug("session connected", zap.String("session", conn.SessionID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok && existing == conn {
				delete(h.conns, conn.SessionID)
				close(conn.Send)
				h.logger.Debug("session disconnected", zap.String("session", conn.SessionID))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.done:
			h.mu.Lock()
			for id, conn := range h.conns {
				close(conn.Send)
				delete(h.conns, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.conns[msg.SessionID]
	if !ok || (msg.Conn != nil && msg.Conn != conn) {
		return
	}
	data, err := json.Marshal(msg.Message)
	if err != nil {
		h.logger.Error("encode message", zap.Error(err))
		return
	}
	select {
	case conn.Send <- data:
	default:
		// Drop message if buffer full
		h.logger.Warn("send buffer full", zap.String("session", msg.SessionID))
	}
}

// Register adds a connection, replacing any earlier one of the same session
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func newMessage(msgType MessageType, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: msgType, Payload: data}
}

// SendToSession queues a message for the session's current connection
// (implements service.Broadcaster)
func (h *Hub) SendToSession(sessionID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{
		SessionID: sessionID,
		Message:   newMessage(MessageType(msgType), payload),
	})
}

// Reply queues a message for conn only
func (h *Hub) Reply(conn *Connection, msgType MessageType, payload interface{}) {
	h.enqueue(&BroadcastMessage{
		SessionID: conn.SessionID,
		Conn:      conn,
		Message:   newMessage(msgType, payload),
	})
}

// Connected reports whether sessionID has a live connection
func (h *Hub) Connected(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[sessionID]
	return ok
}

// Close stops the hub and closes every connection's Send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}
