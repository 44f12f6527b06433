package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/props/internal/scenario"
)

// Stream message types sent on /events.
const (
	streamRun    = "run"
	streamEvent  = "event"
	streamPassed = "passed"
	streamFailed = "failed"
)

const streamWriteWait = 5 * time.Second

// streamMessage is one frame of the /events stream. A run is framed by a
// "run" message and a "passed" or "failed" message, with one "event"
// message per recorded change in between.
type streamMessage struct {
	Type  string          `json:"type"`
	Name  string          `json:"name,omitempty"`
	Event *scenario.Event `json:"event,omitempty"`
	Error string          `json:"error,omitempty"`
}

// eventHub pushes scenario events to connected WebSocket clients while a
// run is in progress.
type eventHub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func newEventHub(logger *slog.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// handle upgrades the request and keeps the client registered until it
// disconnects.
func (h *eventHub) handle(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Debug("event stream client connected", slog.String("remote", req.RemoteAddr))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *eventHub) publishEvent(e scenario.Event) {
	h.publish(streamMessage{Type: streamEvent, Event: &e})
}

func (h *eventHub) publish(msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode stream message", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

func (h *eventHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
