// Package hub implements the connection to the game server's event hub: a
// long-lived websocket carrying JSON records, over which the server pushes
// named events to the client.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
)

// HandshakeError reports that the server rejected the protocol handshake.
type HandshakeError struct {
	Reason string
}

func (e *HandshakeError) Error() string {
	return "hub handshake rejected: " + e.Reason
}

// ErrClosedByServer is logged when the server sends a close record.
var ErrClosedByServer = errors.New("connection closed by server")

type handlerFunc func(args []json.RawMessage) error

// Client owns the hub connection. Handlers registered with On, OnString or
// OnArgument survive reconnects.
type Client struct {
	url          string
	pingInterval time.Duration
	logger       *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
	loops  sync.WaitGroup

	handlersMu sync.RWMutex
	handlers   map[string][]handlerFunc
}

// NewClient creates a disconnected hub client for the configured server.
//
// Precondition: cfg must have passed validation; logger must be non-nil.
// Postcondition: Returns a Client or an error if the hub URL cannot be derived.
func NewClient(cfg config.ClientConfig, logger *zap.Logger) (*Client, error) {
	u, err := cfg.HubURL()
	if err != nil {
		return nil, fmt.Errorf("building hub url: %w", err)
	}
	return &Client{
		url:          u,
		pingInterval: cfg.PingInterval,
		logger:       logger,
		handlers:     make(map[string][]handlerFunc),
	}, nil
}

// EnsureConnected makes sure a live, handshaken connection exists for playerID,
// dialing a new one if there is none or the previous one was closed.
// Safe for concurrent use; concurrent callers share one dial.
//
// Postcondition: Returns nil when the connection is live.
func (c *Client) EnsureConnected(ctx context.Context, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.aliveLocked() {
		return nil
	}

	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("parsing hub url: %w", err)
	}
	q := u.Query()
	q.Set("playerId", playerID)
	u.RawQuery = q.Encode()

	start := time.Now()
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dialing hub: %w", err)
	}

	pending, err := c.handshake(ctx, conn)
	if err != nil {
		_ = conn.Close(websocket.StatusProtocolError, "handshake failed")
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c.conn = conn
	c.cancel = cancel
	c.done = make(chan struct{})

	c.logger.Info("hub connected",
		zap.String("player_id", playerID),
		zap.Duration("elapsed", time.Since(start)),
	)

	for _, rec := range pending {
		c.dispatch(rec)
	}

	c.loops.Add(1)
	go func(done chan struct{}) {
		defer c.loops.Done()
		defer cancel()
		c.readLoop(loopCtx, conn, done)
	}(c.done)
	if c.pingInterval > 0 {
		c.loops.Add(1)
		go func() {
			defer c.loops.Done()
			c.pingLoop(loopCtx, conn)
		}()
	}
	return nil
}

// Connected reports whether a live connection exists.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aliveLocked()
}

func (c *Client) aliveLocked() bool {
	if c.conn == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// handshake performs the protocol handshake and returns any records that
// arrived in the same frame as the response.
func (c *Client) handshake(ctx context.Context, conn *websocket.Conn) ([][]byte, error) {
	req, err := EncodeRecord(HandshakeRequest{Protocol: "json", Version: 1})
	if err != nil {
		return nil, err
	}
	if err := conn.Write(ctx, websocket.MessageText, req); err != nil {
		return nil, fmt.Errorf("sending handshake: %w", err)
	}
	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading handshake response: %w", err)
	}
	records := SplitRecords(data)
	if len(records) == 0 {
		return nil, &HandshakeError{Reason: "empty response"}
	}
	var resp HandshakeResponse
	if err := json.Unmarshal(records[0], &resp); err != nil {
		return nil, fmt.Errorf("decoding handshake response: %w", err)
	}
	if resp.Error != "" {
		return nil, &HandshakeError{Reason: resp.Error}
	}
	return records[1:], nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.logger.Warn("hub connection lost", zap.Error(err))
			}
			return
		}
		for _, rec := range SplitRecords(data) {
			if !c.dispatch(rec) {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	}
}

// dispatch handles one record and reports whether the connection should stay open.
func (c *Client) dispatch(rec []byte) bool {
	var msg Message
	if err := json.Unmarshal(rec, &msg); err != nil {
		c.logger.Warn("undecodable hub record", zap.Error(err))
		return true
	}

	switch msg.Type {
	case TypeInvocation:
		c.handlersMu.RLock()
		handlers := append([]handlerFunc(nil), c.handlers[msg.Target]...)
		c.handlersMu.RUnlock()

		if len(handlers) == 0 {
			c.logger.Debug("no handler for hub event", zap.String("target", msg.Target))
			return true
		}
		for _, h := range handlers {
			if err := h(msg.Arguments); err != nil {
				c.logger.Error("hub event handler failed",
					zap.String("target", msg.Target),
					zap.Error(err),
				)
			}
		}
	case TypePing:
	case TypeClose:
		c.logger.Info("hub closed by server",
			zap.Error(ErrClosedByServer),
			zap.String("reason", msg.Error),
		)
		return false
	default:
		c.logger.Debug("ignoring hub record", zap.Int("type", msg.Type))
	}
	return true
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ping, _ := EncodeRecord(Message{Type: TypePing})
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Write(ctx, websocket.MessageText, ping); err != nil {
				c.logger.Debug("hub ping failed", zap.Error(err))
				return
			}
		}
	}
}

// On registers handler for an event without arguments.
func (c *Client) On(target string, handler func()) {
	c.handle(target, func([]json.RawMessage) error {
		handler()
		return nil
	})
}

// OnString registers handler for an event carrying one string argument.
func (c *Client) OnString(target string, handler func(string)) {
	OnArgument(c, target, handler)
}

// OnArgument registers handler for an event whose first argument decodes into T.
// Invocations whose argument cannot be decoded are logged and skipped.
func OnArgument[T any](c *Client, target string, handler func(T)) {
	c.handle(target, func(args []json.RawMessage) error {
		if len(args) == 0 {
			return fmt.Errorf("%s: expected 1 argument, got 0", target)
		}
		var v T
		if err := json.Unmarshal(args[0], &v); err != nil {
			return fmt.Errorf("%s: decoding argument: %w", target, err)
		}
		handler(v)
		return nil
	})
}

func (c *Client) handle(target string, h handlerFunc) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[target] = append(c.handlers[target], h)
}

// Close sends a close record and shuts the connection down. Safe to call
// when not connected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	conn, cancel, done := c.conn, c.cancel, c.done
	c.conn, c.cancel, c.done = nil, nil, nil

	if rec, err := EncodeRecord(Message{Type: TypeClose}); err == nil {
		writeCtx, writeCancel := context.WithTimeout(context.Background(), time.Second)
		_ = conn.Write(writeCtx, websocket.MessageText, rec)
		writeCancel()
	}
	if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		c.logger.Debug("closing hub connection", zap.Error(err))
	}
	cancel()
	<-done
	c.loops.Wait()
	return nil
}
