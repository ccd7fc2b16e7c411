package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/coder/websocket"

	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Reload clients never send data; keep reads tiny.
	maxMessageSize = 512

	// Messages buffered per client before it is dropped as too slow.
	clientBuffer = 16
)

// client is one connected browser tab.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub owns the set of reload clients.
type hub struct {
	logger     logging.Logger
	clients    map[*client]struct{}
	mutex      sync.RWMutex
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
}

func newHub(logger logging.Logger) *hub {
	return &hub{
		logger:     logger,
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

func (h *hub) run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug(ctx, "Reload client connected", "clients", total)

		case c := <-h.unregister:
			h.remove(c, websocket.StatusNormalClosure)

		case message := <-h.broadcast:
			h.mutex.RLock()
			var slow []*client
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					slow = append(slow, c)
				}
			}
			h.mutex.RUnlock()

			for _, c := range slow {
				h.remove(c, websocket.StatusPolicyViolation)
			}
		}
	}
}

func (h *hub) remove(c *client, status websocket.StatusCode) {
	h.mutex.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mutex.Unlock()

	// Close waits for the peer's close frame; keep the hub loop moving
	if ok {
		go c.conn.Close(status, "")
	}
}

func (h *hub) count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *hub) broadcastMessage(msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(context.Background(), err, "Failed to encode update message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn(context.Background(), nil, "Broadcast queue full, dropping update")
	}
}

// closeAll disconnects every client and stops the hub.
func (h *hub) closeAll() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mutex.Unlock()

	for c := range clients {
		close(c.send)
		go c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.config.Development.HotReload {
		http.NotFound(w, r)
		return
	}

	if err := s.checkOrigin(r); err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket origin rejected")
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	// Origin was verified above against the configured list
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade error")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	s.writePump(r.Context(), c)
}

// writePump forwards hub messages to one client until it goes away.
func (s *PreviewServer) writePump(ctx context.Context, c *client) {
	// Reload clients only listen; CloseRead handles control frames
	ctx = c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		select {
		case s.hub.unregister <- c:
		case <-s.hub.done:
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				s.logger.Debug(ctx, "WebSocket write error", "error", err.Error())
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// checkOrigin accepts same-origin requests, loopback hosts on the
// configured port and the configured allowed origins.
func (s *PreviewServer) checkOrigin(r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return errors.ErrInvalidOrigin("(missing)")
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return errors.ErrInvalidOrigin(origin)
	}

	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return errors.ErrInvalidOrigin(origin)
	}

	allowed := []string{
		r.Host,
		s.config.Address(),
		fmt.Sprintf("localhost:%d", s.config.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Server.Port),
	}
	allowed = append(allowed, s.config.Server.AllowedOrigins...)

	if slices.Contains(allowed, originURL.Host) {
		return nil
	}
	return errors.ErrInvalidOrigin(origin)
}

const reloadJS = `<script>(function(){` +
	`var p=location.protocol==="https:"?"wss:":"ws:";` +
	`var ws=new WebSocket(p+"//"+location.host+"/ws");` +
	`ws.onmessage=function(e){try{if(JSON.parse(e.data).type==="reload"){location.reload()}}catch(_){}};` +
	`})();</script>`

// reloadScript is the head element that connects a page to /ws.
func reloadScript() templ.Component {
	return templ.Raw(reloadJS)
}
