package httpapi

import (
	"net/http"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"

	"github.com/vigontina/matchtrack/internal/domain/share"
	"github.com/vigontina/matchtrack/internal/platform/logging"
	"github.com/vigontina/matchtrack/internal/usecase"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 45 * time.Second
	wsSendBuffer = 16
)

type wsEnvelope struct {
	Type    string           `json:"type"`
	Code    string           `json:"code"`
	Session *shareSessionDTO `json:"session,omitempty"`
}

type wsClient struct {
	code string
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// trySend enqueues without blocking. False means the buffer is full or the
// client is already closed.
func (c *wsClient) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ShareHub fans shared-session updates out to websocket subscribers. Writers
// go through the REST endpoints; the socket is a one-way feed grouped by join
// code. Fan-out is scheduled on a bounded worker pool so one broadcast never
// blocks the caller on a slow connection.
type ShareHub struct {
	shareService *usecase.ShareService
	logger       *logging.Logger
	pool         *ants.Pool
	upgrader     websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewShareHub(shareService *usecase.ShareService, workers int, logger *logging.Logger) (*ShareHub, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}

	return &ShareHub{
		shareService: shareService,
		logger:       logger,
		pool:         pool,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Cross-origin is already policed by the CORS middleware for the
			// REST surface; the socket feed is read only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]map[*wsClient]struct{}),
	}, nil
}

// Close drops every connection and releases the worker pool.
func (h *ShareHub) Close() {
	h.mu.Lock()
	for _, group := range h.clients {
		for client := range group {
			client.close()
		}
	}
	h.clients = make(map[string]map[*wsClient]struct{})
	h.mu.Unlock()

	h.pool.Release()
}

// ServeWS subscribes the caller to a session's update feed. Any valid code
// may watch; the feed carries the same document the REST join returns.
func (h *ShareHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := r.PathValue("code")

	session, err := h.shareService.Snapshot(ctx, code)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "code", code, "error", err)
		return
	}

	client := &wsClient{code: session.Code, conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.register(client)

	// Initial snapshot so a late joiner does not wait for the next write.
	if payload, err := marshalEnvelope("state", session.Code, &session); err == nil {
		client.trySend(payload)
	}

	go client.writePump()
	go h.readPump(client)
}

// SessionUpdated implements usecase.ShareBroadcaster.
func (h *ShareHub) SessionUpdated(session share.Session) {
	payload, err := marshalEnvelope("state", session.Code, &session)
	if err != nil {
		h.logger.Error("marshal share update failed", "code", session.Code, "error", err)
		return
	}
	h.fanOut(session.Code, payload, false)
}

// SessionEnded implements usecase.ShareBroadcaster. Subscribers get a final
// message and are disconnected.
func (h *ShareHub) SessionEnded(code string) {
	payload, err := marshalEnvelope("ended", code, nil)
	if err != nil {
		h.logger.Error("marshal share end failed", "code", code, "error", err)
		return
	}
	h.fanOut(code, payload, true)
}

func marshalEnvelope(kind, code string, session *share.Session) ([]byte, error) {
	envelope := wsEnvelope{Type: kind, Code: code}
	if session != nil {
		dto := shareSessionToDTO(*session)
		envelope.Session = &dto
	}
	return sonic.Marshal(envelope)
}

func (h *ShareHub) fanOut(code string, payload []byte, closeAfter bool) {
	h.mu.RLock()
	group := make([]*wsClient, 0, len(h.clients[code]))
	for client := range h.clients[code] {
		group = append(group, client)
	}
	h.mu.RUnlock()

	for _, client := range group {
		err := h.pool.Submit(func() {
			if !client.trySend(payload) {
				// A subscriber that cannot keep up is dropped rather than
				// allowed to stall the rest of the session.
				h.unregister(client)
				return
			}
			if closeAfter {
				h.unregister(client)
			}
		})
		if err != nil {
			h.logger.Warn("share fan-out submit failed", "code", code, "error", err)
		}
	}

	if closeAfter {
		h.mu.Lock()
		delete(h.clients, code)
		h.mu.Unlock()
	}
}

func (h *ShareHub) register(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.clients[client.code]
	if !ok {
		group = make(map[*wsClient]struct{})
		h.clients[client.code] = group
	}
	group[client] = struct{}{}
}

func (h *ShareHub) unregister(client *wsClient) {
	h.mu.Lock()
	if group, ok := h.clients[client.code]; ok {
		if _, member := group[client]; member {
			delete(group, client)
			if len(group) == 0 {
				delete(h.clients, client.code)
			}
		}
	}
	h.mu.Unlock()

	client.close()
}

// readPump discards inbound frames; it exists to notice disconnects and to
// answer pings.
func (h *ShareHub) readPump(client *wsClient) {
	defer func() {
		h.unregister(client)
		_ = client.conn.Close()
	}()

	client.conn.SetReadLimit(1024)
	_ = client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read ended", "code", client.code, "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
