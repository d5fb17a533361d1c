/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer.
	CheckOrigin: func(*http.Request) bool { return true },
}

// subscriber wraps a websocket connection with its own write lock.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *subscriber) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *subscriber) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub fans messages out to websocket subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*websocket.Conn]*subscriber
	closed bool
	gauge  prometheus.Gauge
}

// NewHub creates a hub. gauge, if non-nil, tracks the subscriber count.
func NewHub(gauge prometheus.Gauge) *Hub {
	return &Hub{
		subs:  make(map[*websocket.Conn]*subscriber),
		gauge: gauge,
	}
}

func (h *Hub) add(conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	sub := &subscriber{conn: conn}
	h.subs[conn] = sub
	h.setGauge()
	return sub, true
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[conn]; ok {
		delete(h.subs, conn)
		_ = conn.Close()
		h.setGauge()
	}
}

func (h *Hub) setGauge() {
	if h.gauge != nil {
		h.gauge.Set(float64(len(h.subs)))
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast sends v as JSON to every subscriber, dropping the ones that
// fail.
func (h *Hub) Broadcast(v any) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.writeJSON(v); err != nil {
			h.remove(sub.conn)
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn, sub := range h.subs {
		sub.mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		sub.mu.Unlock()
		_ = conn.Close()
		delete(h.subs, conn)
	}
	h.setGauge()
}

// handleEvents upgrades to a websocket and streams store events until the
// client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub, ok := s.hub.add(conn)
	if !ok {
		_ = conn.Close()
		return
	}
	defer s.hub.remove(conn)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sub.ping(); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	// Clients only listen; reading drives control frames and notices
	// disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
