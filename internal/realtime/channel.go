// Package realtime hosts the collaboration socket. Connections are accepted
// and kept alive; inbound frames are read and dropped. Only connect and
// disconnect are surfaced, through Hooks.
package realtime

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var ErrClosed = errors.New("realtime channel closed")

type Session struct {
	ID          string
	RemoteAddr  string
	UserAgent   string
	ConnectedAt time.Time
}

type Options struct {
	ReadLimit      int64
	PingInterval   time.Duration
	AllowedOrigins []string
	Hooks          Hooks
}

type Channel struct {
	upgrader     websocket.Upgrader
	hooks        Hooks
	readLimit    int64
	pingInterval time.Duration

	mu     sync.Mutex
	conns  map[*websocket.Conn]*Session
	closed bool
}

func New(opts Options) *Channel {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.Hooks == nil {
		opts.Hooks = NopHooks{}
	}
	ch := &Channel{
		hooks:        opts.Hooks,
		readLimit:    opts.ReadLimit,
		pingInterval: opts.PingInterval,
		conns:        make(map[*websocket.Conn]*Session),
	}
	ch.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}
	return ch
}

func originChecker(allowlist []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, origin := range allowlist {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

func (ch *Channel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch.mu.Lock()
	closed := ch.closed
	ch.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := ch.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logutil.GetLogger(ctx).Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	session := &Session{
		ID:          uuid.NewString(),
		RemoteAddr:  r.RemoteAddr,
		UserAgent:   r.UserAgent(),
		ConnectedAt: time.Now(),
	}
	if !ch.register(conn, session) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	ch.hooks.OnConnect(ctx, session)

	done := make(chan struct{})
	go ch.keepalive(conn, done)
	readErr := ch.drain(conn)
	close(done)

	ch.unregister(conn)
	_ = conn.Close()
	ch.hooks.OnDisconnect(ctx, session, readErr)
}

// drain reads until the peer goes away. A clean close is reported as nil.
func (ch *Channel) drain(conn *websocket.Conn) error {
	if ch.readLimit > 0 {
		conn.SetReadLimit(ch.readLimit)
	}
	deadline := 2 * ch.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(deadline))
	}
}

func (ch *Channel) keepalive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(ch.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (ch *Channel) register(conn *websocket.Conn, session *Session) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return false
	}
	ch.conns[conn] = session
	return true
}

func (ch *Channel) unregister(conn *websocket.Conn) {
	ch.mu.Lock()
	delete(ch.conns, conn)
	ch.mu.Unlock()
}

func (ch *Channel) ActiveCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.conns)
}

// Close refuses new connections and sends a going-away close frame to every
// open one. Read loops then exit and fire OnDisconnect as usual.
func (ch *Channel) Close() error {
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	ch.closed = true
	conns := make([]*websocket.Conn, 0, len(ch.conns))
	for conn := range ch.conns {
		conns = append(conns, conn)
	}
	ch.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
			_ = conn.Close()
		}
	}
	return nil
}

var _ http.Handler = (*Channel)(nil)
