package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fzzzy/mumulib/pkg/vdom"
	"github.com/gorilla/websocket"
)

// Conn is one client connection. Outgoing messages are queued so the
// document's task queue never blocks on the network.
type Conn struct {
	server *Server
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger

	mu          sync.Mutex
	unsubscribe func()
}

// HandleWebSocket upgrades the request and serves the connection until it
// closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.RecordWebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Conn{
		server: s,
		ws:     ws,
		send:   make(chan []byte, s.config.SendBuffer),
		done:   make(chan struct{}),
		logger: s.logger.With("remote", r.RemoteAddr),
	}
	s.track(c)

	// Snapshot and subscribe in one task so no batch falls between them.
	var syncErr error
	err = s.doc.Do(r.Context(), func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		select {
		case <-c.done:
			return
		default:
		}
		var body []byte
		body, syncErr = EncodeBody(s.doc.Body())
		if syncErr != nil {
			return
		}
		c.enqueue(body)
		c.unsubscribe = s.doc.Subscribe(c.sendPatches)
	})
	if err == nil {
		err = syncErr
	}
	if err != nil {
		c.logger.Error("websocket sync failed", "error", err)
		c.Close()
		return
	}

	c.logger.Debug("websocket connected")
	go c.writeLoop()
	c.readLoop(context.WithoutCancel(r.Context()))
}

// sendPatches is the document subscriber. It runs on the task queue.
func (c *Conn) sendPatches(patches []vdom.Patch) {
	data, err := EncodePatches(patches)
	if err != nil {
		c.logger.Error("patch encode failed", "error", err)
		return
	}
	c.enqueue(data)
}

// enqueue queues data for the write loop. A connection whose queue is full
// is closed.
func (c *Conn) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.server.metrics.RecordWebSocketError("slow_consumer")
		c.logger.Warn("send queue full, closing connection")
		go c.Close()
	}
}

// readLoop decodes client events and posts them to the document.
func (c *Conn) readLoop(ctx context.Context) {
	defer c.Close()

	cfg := c.server.config
	c.ws.SetReadLimit(cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	})

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				c.server.metrics.RecordWebSocketError("read")
				c.logger.Error("read error", "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))

		ev, err := DecodeEvent(msg)
		if err != nil {
			c.server.metrics.RecordWebSocketError("invalid_event")
			c.logger.Warn("invalid client event", "error", err)
			c.enqueue(EncodeError(err))
			continue
		}

		doc := c.server.doc
		if err := doc.Post(func() {
			if err := dispatchTraced(ctx, doc, ev); err != nil {
				c.enqueue(EncodeError(err))
			}
		}); err != nil {
			c.logger.Warn("event dropped", "type", ev.Type, "error", err)
			return
		}
	}
}

// writeLoop sends queued messages and heartbeat pings.
func (c *Conn) writeLoop() {
	cfg := c.server.config
	ticker := time.NewTicker(cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.server.metrics.RecordWebSocketError("write")
				c.logger.Debug("write error", "error", err)
				c.Close()
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}

// Close unsubscribes from the document and closes the socket. It is safe
// to call more than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		close(c.done)
		unsubscribe := c.unsubscribe
		c.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		c.ws.Close()
		c.server.untrack(c)
		c.logger.Debug("websocket closed")
	})
}
