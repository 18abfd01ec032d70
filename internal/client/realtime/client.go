package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/model"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	minReconnect = 500 * time.Millisecond
)

// Handler receives every inbound envelope plus synthetic connect and disconnect envelopes.
// It is called from the read goroutine and must not block for long.
type Handler func(env model.Envelope)

type Client struct {
	url        string
	token      string
	expiresAt  time.Time
	minBackoff time.Duration
	maxBackoff time.Duration
	dialer     *websocket.Dialer

	connected atomic.Bool
	writeMu   sync.Mutex
	conn      *websocket.Conn
}

type Option func(*Client)

// WithExpiry stops reconnecting once the connect token has expired.
func WithExpiry(expiresAt time.Time) Option {
	return func(c *Client) {
		c.expiresAt = expiresAt
	}
}

func WithBackoff(initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		c.minBackoff = initial
		c.maxBackoff = maxInterval
	}
}

func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		url:        cfg.Realtime.URL,
		token:      cfg.Realtime.Token,
		minBackoff: minReconnect,
		maxBackoff: cfg.Realtime.MaxBackoff,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: writeWait,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run keeps the channel open until ctx is done. It returns nil on cancellation and
// ErrTokenExpired once the connect token can no longer be used.
func (c *Client) Run(ctx context.Context, handler Handler) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("Run")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.minBackoff
	if c.maxBackoff > 0 {
		b.MaxInterval = c.maxBackoff
	}

	for {
		conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
			return c.dial(ctx, logger)
		}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(0))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		c.attach(conn)
		logger.Info(fmt.Sprintf("connected to %s", c.url))
		handler(model.Envelope{Event: model.EventConnect})

		err = c.readLoop(ctx, conn, handler, logger)

		c.detach(conn)
		handler(model.Envelope{Event: model.EventDisconnect})
		if ctx.Err() != nil {
			return nil
		}
		logger.Error(fmt.Sprintf("realtime connection lost: %v", err))
	}
}

func (c *Client) dial(ctx context.Context, logger logger_lib.LoggerInterface) (*websocket.Conn, error) {
	if !c.expiresAt.IsZero() && !time.Now().Before(c.expiresAt) {
		return nil, backoff.Permanent(model.ErrTokenExpired)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, backoff.Permanent(fmt.Errorf("%w: rejected by server", model.ErrTokenExpired))
		}
		logger.Error(fmt.Sprintf("failed to connect to %s: %v", c.url, err))
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	return conn, nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, handler Handler, logger logger_lib.LoggerInterface) error {
	done := make(chan struct{})
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.keepAlive(ctx, conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var env model.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			logger.Error(fmt.Sprintf("skipped unreadable frame: %s", truncate(data)))
			continue
		}
		handler(env)
	}
}

func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (c *Client) attach(conn *websocket.Conn) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn = conn
	c.connected.Store(true)
}

func (c *Client) detach(conn *websocket.Conn) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.connected.Store(false)
	if c.conn == conn {
		c.conn = nil
	}
	_ = conn.Close()
}

// Emit writes one envelope. It fails with ErrNotConnected when no connection is open.
func (c *Client) Emit(ctx context.Context, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return model.ErrNotConnected
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeWait)
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(model.Envelope{Event: event, Data: raw}); err != nil {
		return fmt.Errorf("failed to write %s: %w", event, err)
	}
	return nil
}

// Close sends a close frame on the open connection, if any.
func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func truncate(data []byte) string {
	const limit = 128
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
