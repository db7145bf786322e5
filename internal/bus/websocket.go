package bus

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Default OVOS message bus endpoint.
const (
	DefaultHost  = "127.0.0.1"
	DefaultPort  = 8181
	DefaultRoute = "/core"
)

// ClientConfig describes where the OVOS message bus lives.
type ClientConfig struct {
	Host           string
	Port           int
	Route          string
	SSL            bool
	ReconnectDelay time.Duration
}

// URL returns the websocket URL for the config.
func (c ClientConfig) URL() string {
	scheme := "ws"
	if c.SSL {
		scheme = "wss"
	}
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	route := c.Route
	if route == "" {
		route = DefaultRoute
	}
	u := url.URL{
		Scheme: scheme,
		Host:   host + ":" + strconv.Itoa(port),
		Path:   route,
	}
	return u.String()
}

// WebsocketClient connects to the OVOS message bus over a websocket.
// Incoming messages are dispatched sequentially from the Run goroutine.
// Emitted messages are only sent to the server; local handlers see them
// when the server broadcasts them back.
type WebsocketClient struct {
	*registry

	logger         *slog.Logger
	url            string
	dialer         *websocket.Dialer
	reconnectDelay time.Duration

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewWebsocketClient creates a client for the given config. Call Connect
// before Emit and Run to start receiving.
func NewWebsocketClient(cfg ClientConfig, logger *slog.Logger) *WebsocketClient {
	if logger == nil {
		logger = slog.Default()
	}
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &WebsocketClient{
		registry:       newRegistry(logger),
		logger:         logger,
		url:            cfg.URL(),
		dialer:         &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		reconnectDelay: delay,
	}
}

// URL returns the bus endpoint this client dials.
func (c *WebsocketClient) URL() string {
	return c.url
}

// Connect dials the bus. It replaces any existing connection.
func (c *WebsocketClient) Connect(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to message bus %s (status %d): %w", c.url, resp.StatusCode, err)
		}
		return fmt.Errorf("failed to connect to message bus %s: %w", c.url, err)
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	c.logger.Info("connected to message bus", "url", c.url)
	return nil
}

// Connected reports whether the client holds a live connection.
func (c *WebsocketClient) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Emit sends msg to the bus.
func (c *WebsocketClient) Emit(msg Message) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.Type, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send message %s: %w", msg.Type, err)
	}

	c.logger.Debug("emitted bus message", "type", msg.Type)
	return nil
}

// Run reads and dispatches messages until ctx is done, reconnecting after
// a connection failure.
func (c *WebsocketClient) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	for {
		if !c.Connected() {
			if err := c.Connect(ctx); err != nil {
				c.logger.Warn("message bus unavailable, retrying", "error", err, "delay", c.reconnectDelay)
				if !sleepCtx(ctx, c.reconnectDelay) {
					return ctx.Err()
				}
				continue
			}
		}

		err := c.readLoop()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("message bus connection lost", "error", err)
		c.dropConn()
		if !sleepCtx(ctx, c.reconnectDelay) {
			return ctx.Err()
		}
	}
}

// readLoop dispatches messages from the current connection until it fails.
func (c *WebsocketClient) readLoop() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		msg, err := ParseMessage(raw)
		if err != nil {
			c.logger.Debug("ignoring malformed bus message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *WebsocketClient) dropConn() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Close sends a close frame and drops the connection.
func (c *WebsocketClient) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	return conn.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
