// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applog "analyzer/internal/log"
)

// WebSocketTransport broadcasts analysis frames as JSON to every
// connected renderer.
//
// Thread safety:
// - Mutex around the client map
// - Time-based rate limit so a fast render loop cannot flood slow clients
// - Slow or broken clients are dropped, never waited on
type WebSocketTransport struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server

	lastSend        time.Time
	minSendInterval time.Duration
}

// NewWebSocketTransport starts a WebSocket server on the given address
// serving frames at /spectrum. minSendInterval throttles broadcasts;
// zero disables throttling.
func NewWebSocketTransport(addr string, minSendInterval time.Duration) *WebSocketTransport {
	t := &WebSocketTransport{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local visualization tool, any origin may attach
			},
		},
		minSendInterval: minSendInterval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/spectrum", t.handleWebSocket)
	t.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		applog.Infof("WebSocketTransport: listening on %s", addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			applog.Errorf("WebSocketTransport: server error: %v", err)
		}
	}()

	return t
}

func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Errorf("WebSocketTransport: upgrade error: %v", err)
		return
	}

	t.clientsMutex.Lock()
	t.clients[conn] = true
	total := len(t.clients)
	t.clientsMutex.Unlock()
	applog.Infof("WebSocketTransport: renderer connected, total %d", total)

	// Drain the connection until it closes so we notice disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.clientsMutex.Lock()
				delete(t.clients, conn)
				remaining := len(t.clients)
				t.clientsMutex.Unlock()
				conn.Close()
				applog.Infof("WebSocketTransport: renderer disconnected, total %d", remaining)
				return
			}
		}
	}()
}

// Send broadcasts one frame to all connected renderers, dropping the
// frame entirely when inside the rate-limit window. Clients that fail
// to accept the write are disconnected.
func (t *WebSocketTransport) Send(data any) error {
	now := time.Now()
	if t.minSendInterval > 0 && now.Sub(t.lastSend) < t.minSendInterval {
		return nil
	}
	t.lastSend = now

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	t.clientsMutex.Lock()
	for client := range t.clients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			client.Close()
			delete(t.clients, client)
		}
	}
	t.clientsMutex.Unlock()

	return nil
}

// Close disconnects all renderers and shuts down the server.
func (t *WebSocketTransport) Close() error {
	t.clientsMutex.Lock()
	for client := range t.clients {
		client.Close()
		delete(t.clients, client)
	}
	t.clientsMutex.Unlock()

	return t.server.Close()
}

var _ Transport = (*WebSocketTransport)(nil)
