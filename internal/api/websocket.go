// internal/api/websocket.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"gearspire/internal/interfaces"
	"gearspire/internal/metrics"
)

const (
	MaxWSConnections = 200
	wsSendBuffer     = 8
	wsWriteTimeout   = 5 * time.Second
	wsPongTimeout    = 60 * time.Second
	wsPingPeriod     = wsPongTimeout * 9 / 10
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	ip   string
}

// Hub fans snapshots out to websocket clients. Each client has its own
// writer goroutine; a client that falls behind is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}

	origins  []string
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewHub(origins []string, m *metrics.Metrics, log zerolog.Logger) *Hub {
	h := &Hub{
		clients: make(map[*wsClient]struct{}),
		origins: origins,
		metrics: m,
		log:     log.With().Str("component", "ws").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-origin tools (no header) and configured patterns.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	for _, p := range h.origins {
		if ok, _ := path.Match(p, origin); ok {
			return true
		}
	}
	h.log.Warn().Str("origin", origin).Msg("websocket origin rejected")
	h.reject("origin")
	return false
}

func (h *Hub) reject(reason string) {
	if h.metrics != nil {
		h.metrics.ConnectionRejected.WithLabelValues(reason).Inc()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.gauge(n)
	h.log.Debug().Str("ip", c.ip).Int("clients", n).Msg("client connected")
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	h.gauge(n)
	h.log.Debug().Str("ip", c.ip).Int("clients", n).Msg("client disconnected")
}

func (h *Hub) gauge(n int) {
	if h.metrics != nil {
		h.metrics.WSConnections.Set(float64(n))
	}
}

// Broadcast queues msg for every client without blocking.
func (h *Hub) Broadcast(event string, data any) {
	msg, err := json.Marshal(map[string]any{"event": event, "data": data})
	if err != nil {
		h.log.Error().Err(err).Msg("encode broadcast")
		return
	}
	var slow []*wsClient
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range slow {
		h.remove(c)
	}
	if h.metrics != nil {
		h.metrics.WSMessages.Inc()
	}
}

// BroadcastLoop pushes a snapshot at most hz times per second while there are clients.
// Unchanged ticks are not resent.
func (h *Hub) BroadcastLoop(ctx context.Context, runner interfaces.GameRunner, hz float64) {
	if hz <= 0 {
		hz = 10
	}
	limiter := rate.NewLimiter(rate.Limit(hz), 1)
	lastTick := int64(-1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if h.ClientCount() == 0 {
			continue
		}
		snap := runner.Snapshot()
		if snap.Tick == lastTick {
			continue
		}
		lastTick = snap.Tick
		h.Broadcast("state", snap)
	}
}

// HandleWebSocket upgrades the request and streams snapshots until the client goes away.
func (h *Hub) HandleWebSocket(runner interfaces.GameRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.ClientCount() >= MaxWSConnections {
			h.reject("ws_limit")
			writeError(w, "too many connections", http.StatusServiceUnavailable)
			return
		}
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}
		c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer), ip: ClientIP(r)}

		// первый снимок сразу, не дожидаясь цикла рассылки
		if first, err := json.Marshal(map[string]any{"event": "state", "data": runner.Snapshot()}); err == nil {
			c.send <- first
		}
		h.add(c)

		go h.writePump(c)
		h.readPump(c)
	}
}

func (h *Hub) writePump(c *wsClient) {
	ping := time.NewTicker(wsPingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump discards client messages; it exists to notice disconnects.
func (h *Hub) readPump(c *wsClient) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
