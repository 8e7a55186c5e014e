// Package spectate is a headless client for the server's WebSocket feed.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"bullet-hell/internal/api"
	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// maxFrame bounds one feed message
const maxFrame = 1 << 20

// Config describes the feed to follow
type Config struct {
	URL            string        // ws://host:port/ws
	Token          string        // Control token; empty connects read-only
	ReconnectDelay time.Duration // Pause between sessions in Run
}

// Client follows the feed and hands decoded messages to its callbacks.
// Callbacks run on the read goroutine and must not block.
type Client struct {
	cfg Config

	onState func(*game.GameSnapshot)
	onNotes func([]game.Notification)

	mu   sync.Mutex
	conn *websocket.Conn

	states atomic.Uint64
	notes  atomic.Uint64
}

// NewClient creates a client that logs notifications until other
// callbacks are installed
func NewClient(cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	return &Client{
		cfg:     cfg,
		onState: func(*game.GameSnapshot) {},
		onNotes: LogNotifications,
	}
}

// OnState installs the snapshot callback. Call before Run.
func (c *Client) OnState(fn func(*game.GameSnapshot)) {
	c.onState = fn
}

// OnNotifications installs the notification callback. Call before Run.
func (c *Client) OnNotifications(fn func([]game.Notification)) {
	c.onNotes = fn
}

// Stats returns how many snapshots and notifications were received
func (c *Client) Stats() (states, notes uint64) {
	return c.states.Load(), c.notes.Load()
}

// Run follows the feed, reconnecting after errors, until ctx is cancelled
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.Session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		logger.Log.WithError(err).WithField("retry", c.cfg.ReconnectDelay).Warn("Feed session ended, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// Session runs one connection until it fails or ctx is cancelled
func (c *Client) Session(ctx context.Context) error {
	opts := &websocket.DialOptions{}
	if c.cfg.Token != "" {
		opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + c.cfg.Token}}
	}

	conn, _, err := websocket.Dial(ctx, c.cfg.URL, opts)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxFrame)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	logger.Log.WithField("url", c.cfg.URL).Info("Connected to feed")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "shutdown")
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := c.dispatch(data); err != nil {
			logger.Log.WithError(err).Debug("Skipping feed message")
		}
	}
}

// dispatch decodes one envelope and invokes the matching callback
func (c *Client) dispatch(data []byte) error {
	var msg api.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch msg.Event {
	case api.EventState:
		var snap game.GameSnapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		c.states.Add(1)
		c.onState(&snap)

	case api.EventNotifications:
		var notes []game.Notification
		if err := json.Unmarshal(msg.Data, &notes); err != nil {
			return fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		c.notes.Add(uint64(len(notes)))
		c.onNotes(notes)

	default:
		return fmt.Errorf("unknown event %q", msg.Event)
	}
	return nil
}

// ErrNotConnected is returned by SendKeys outside a session
var ErrNotConnected = errors.New("spectate: not connected")

// SendKeys sends the held keys; the server ignores them without a valid token
func (c *Client) SendKeys(ctx context.Context, keys []string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	payload, err := json.Marshal(api.InputRequest{Keys: keys})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

// LogNotifications writes each notification to the global logger
func LogNotifications(notes []game.Notification) {
	for _, n := range notes {
		entry := logger.Log.WithFields(logrus.Fields{
			"kind": n.Kind.String(),
			"tick": n.Tick,
		})
		switch n.Kind {
		case game.NotifyHit:
			entry.WithFields(logrus.Fields{
				"entity": n.Entity,
				"tag":    n.Tag.String(),
				"bullet": n.Bullet,
				"damage": n.Damage,
				"health": n.Health,
			}).Info("Hit")
		case game.NotifyDeath:
			entry.WithFields(logrus.Fields{"entity": n.Entity, "tag": n.Tag.String()}).Info("Death")
		case game.NotifyGameOver:
			entry.WithField("outcome", n.Outcome.String()).Info("Round over")
		}
	}
}
