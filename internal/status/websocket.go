package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Path the websocket is served on
const Path = "/status"

// envelope is the wire format for every frame: {type, ts, data}
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// stateInit is sent to every client right after it connects
type stateInit struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port,omitempty"`
}

type connectionData struct {
	Port string `json:"port,omitempty"`
}

// encode renders u as a websocket frame
func encode(u Update) ([]byte, error) {
	ts := u.At.UTC()
	env := envelope{Type: string(u.Kind), Ts: &ts}
	switch u.Kind {
	case KindConnected, KindDisconnected:
		env.Data = connectionData{Port: u.Port}
	case KindDispatch:
		env.Data = u.Dispatch
	default:
		return nil, errors.New("unknown update kind " + string(u.Kind))
	}
	return json.Marshal(env)
}

// Hub tracks connected websocket clients and fans frames out to them.
// Clients that cannot keep up are disconnected.
type Hub struct {
	logger *zap.Logger

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}
	done    chan struct{} // closed when Run returns

	sendBuf int
}

// HubConfig sizes the hub's queues. Zero values pick defaults.
type HubConfig struct {
	SendBuf      int // Per-client outbound queue
	BroadcastBuf int // Hub inbound queue
}

// NewHub constructs a hub. Call Run(ctx) to start it.
func NewHub(logger *zap.Logger, cfg HubConfig) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 32
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 128
	}
	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAllClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("ws client registered", zap.String("remote_addr", c.remoteAddr), zap.Int("clients", n))

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			var slow []*Client
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

// join hands c to Run. It returns false once Run has stopped; the
// register channel is unbuffered, so a client is either taken by Run or
// rejected.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave asks Run to drop c. After Run has stopped every client is already
// closed.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients returns the number of registered clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.closeSend()
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.closeSend()
	h.logger.Debug("ws client disconnected",
		zap.String("remote_addr", c.remoteAddr),
		zap.String("reason", reason),
		zap.Int("clients", n))
}

// BroadcastBytes enqueues a serialized frame. It never blocks; a full
// queue drops the frame.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws hub broadcast queue full, dropping message", zap.Int("bytes", len(msg)))
	}
}

// Client is one websocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce  sync.Once
	remoteAddr string
	logger     *zap.Logger
}

// NewClient creates a client with a buffered send queue
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, hub.sendBuf),
		remoteAddr: remoteAddr,
		logger:     hub.logger,
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// writePump writes queued frames until send is closed or a write fails
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logExit("write", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logExit("ping", err)
				return
			}
		}
	}
}

// readPump discards inbound frames so control frames are handled and
// disconnects are noticed, then unregisters the client.
func (c *Client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logExit("read", err)
			c.hub.leave(c)
			return
		}
	}
}

func (c *Client) logExit(op string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.logger.Debug("ws pump exiting (close)",
			zap.String("op", op),
			zap.String("remote_addr", c.remoteAddr),
			zap.Int("code", ce.Code))
		return
	}
	c.logger.Debug("ws pump exiting", zap.String("op", op), zap.String("remote_addr", c.remoteAddr), zap.Error(err))
}

// Server streams status updates to websocket clients. It is a Sink.
type Server struct {
	logger *zap.Logger
	hub    *Hub

	mu   sync.RWMutex
	conn Update
}

// NewServer constructs the websocket server
func NewServer(logger *zap.Logger, cfg HubConfig) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("status")
	return &Server{
		logger: logger,
		hub:    NewHub(logger, cfg),
		conn:   Disconnected(""),
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Publish broadcasts u to every client
func (s *Server) Publish(u Update) {
	if u.Kind == KindConnected || u.Kind == KindDisconnected {
		s.mu.Lock()
		s.conn = u
		s.mu.Unlock()
	}
	msg, err := encode(u)
	if err != nil {
		s.logger.Warn("ws marshal failed", zap.Error(err))
		return
	}
	s.hub.BroadcastBytes(msg)
}

// Register registers the websocket handler on mux
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc(Path, s.handleStatus)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

// checkOrigin lets through clients that send no Origin (CLI tools,
// scripts), same-origin pages and pages served from loopback. Any other
// site is refused so it cannot read keyboard activity.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", zap.String("origin", r.Header.Get("Origin")), zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr)

	// The init frame is queued before registration so it always comes first
	if msg, err := s.initFrame(); err == nil {
		client.send <- msg
	}
	if !s.hub.join(client) {
		s.logger.Debug("ws hub stopped, rejecting client", zap.String("remote_addr", r.RemoteAddr))
		_ = conn.Close()
		return
	}

	// Pumps are not tied to r.Context(); net/http cancels it when the
	// handler returns.
	go client.writePump()
	go client.readPump()
}

func (s *Server) initFrame() ([]byte, error) {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	now := time.Now().UTC()
	return json.Marshal(envelope{
		Type: "state_init",
		Ts:   &now,
		Data: stateInit{Connected: conn.Kind == KindConnected, Port: conn.Port},
	})
}

// ListenAndServe serves the websocket on addr until ctx is canceled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the websocket on ln until ctx is canceled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	s.Register(mux)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(hubCtx)

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("status websocket listening", zap.String("addr", ln.Addr().String()), zap.String("path", Path))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
