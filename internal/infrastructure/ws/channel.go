// Package ws holds the live update channel: a single owned websocket
// connection to the backend, the envelope codec for its frames and the
// optional reconnect policy.
package ws

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/booknook/storefront/internal/api/metrics"
)

// WebSocketURL derives the live channel endpoint from the REST base URL by
// swapping the scheme (http→ws, https→wss) and appending /ws.
func WebSocketURL(apiBase string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(apiBase))
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("api base url %q: unsupported scheme %q", apiBase, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("api base url %q: missing host", apiBase)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery, u.Fragment = "", ""
	return u.String(), nil
}

// Callbacks are invoked on socket lifecycle events. Any of them may be nil.
// They run outside the channel's lock.
type Callbacks struct {
	OnOpen func()
	// OnClose receives nil after an explicit Disconnect.
	OnClose func(err error)
	OnError func(err error)
}

// Options configures a Channel.
type Options struct {
	// Header is sent with the handshake (session cookie / bearer token).
	Header http.Header
	// HandshakeTimeout of zero means no timeout on the connection attempt.
	HandshakeTimeout time.Duration
	Reconnect        ReconnectPolicy
	Callbacks        Callbacks
}

type subscriber struct {
	id   int
	name string
	fn   func(frame []byte)
}

// Channel owns at most one open websocket. Frames are handed to every
// subscriber sequentially, in arrival order; a subscriber runs to completion
// before the next frame is read.
type Channel struct {
	url    string
	opts   Options
	dialer *websocket.Dialer
	log    zerolog.Logger

	// mu serializes lifecycle changes and is held across a dial.
	mu       sync.Mutex
	conn     *websocket.Conn
	stop     chan struct{}
	loopDone chan struct{}
	// open mirrors conn != nil so Connected never waits on a dial.
	open atomic.Bool

	subMu  sync.RWMutex
	subs   []subscriber
	nextID int
}

// NewChannel returns a disconnected Channel for the given ws:// or wss:// URL.
func NewChannel(wsURL string, opts Options, log zerolog.Logger) *Channel {
	return &Channel{
		url:  wsURL,
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		log: log.With().Str("component", "live_channel").Logger(),
	}
}

// Subscribe registers a consumer and returns a function removing it.
func (c *Channel) Subscribe(name string, fn func(frame []byte)) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, name: name, fn: fn})
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Connect opens the socket. It is a no-op while the channel is open, and
// concurrent callers still end up with a single socket.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.loopDone != nil {
		c.mu.Unlock()
		return nil
	}

	conn, err := c.dial(ctx)
	if err != nil {
		c.mu.Unlock()
		c.fireError(err)
		return fmt.Errorf("live channel connect: %w", err)
	}

	stop, done := make(chan struct{}), make(chan struct{})
	c.conn, c.stop, c.loopDone = conn, stop, done
	c.open.Store(true)
	c.mu.Unlock()

	go c.run(conn, stop, done)
	c.fireOpen()
	return nil
}

// Disconnect closes the socket and clears the channel so that a later
// Connect opens a new one. It waits for the read loop to exit.
func (c *Channel) Disconnect() error {
	c.mu.Lock()
	conn, stop, done := c.conn, c.stop, c.loopDone
	c.conn, c.stop, c.loopDone = nil, nil, nil
	c.open.Store(false)
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	close(stop)

	var err error
	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if werr := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); werr != nil &&
			!errors.Is(werr, websocket.ErrCloseSent) {
			err = fmt.Errorf("live channel close frame: %w", werr)
		}
		_ = conn.Close()
	}
	<-done
	return err
}

// Connected reports whether a socket is currently open. It does not block
// while a Connect is dialing.
func (c *Channel) Connected() bool {
	return c.open.Load()
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.opts.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

func (c *Channel) run(conn *websocket.Conn, stop <-chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		err := c.read(conn)
		_ = conn.Close()

		select {
		case <-stop:
			c.fireClose(nil)
			return
		default:
		}

		c.mu.Lock()
		if c.loopDone == done {
			c.conn = nil
			c.open.Store(false)
		}
		c.mu.Unlock()

		c.fireError(err)
		c.fireClose(err)

		conn = c.reconnect(stop, done)
		if conn == nil {
			c.release(done)
			return
		}
	}
}

func (c *Channel) read(conn *websocket.Conn) error {
	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.TextMessage {
			c.log.Warn().Int("type", msgType).Msg("ignoring non-text frame")
			continue
		}
		c.deliver(frame)
	}
}

func (c *Channel) deliver(frame []byte) {
	c.subMu.RLock()
	subs := append([]subscriber(nil), c.subs...)
	c.subMu.RUnlock()

	for _, s := range subs {
		c.call(s, frame)
	}
}

// call isolates one consumer: a panic is logged and the loop carries on with
// the next consumer and the next frame.
func (c *Channel) call(s subscriber, frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			metrics.LiveMessagesDroppedTotal.WithLabelValues(s.name, "panic").Inc()
			c.log.Error().
				Str("consumer", s.name).
				Interface("panic", r).
				Msg("live consumer panicked, message skipped")
		}
	}()
	s.fn(frame)
}

// reconnect dials again according to the policy. It returns nil when retries
// are exhausted or the channel was disconnected meanwhile.
func (c *Channel) reconnect(stop <-chan struct{}, done chan struct{}) *websocket.Conn {
	p := c.opts.Reconnect
	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		wait := p.Backoff(attempt, rand.Float64)
		c.log.Info().Int("attempt", attempt+1).Dur("backoff", wait).Msg("live channel reconnecting")

		timer := time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return nil
		case <-timer.C:
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-stop:
				cancel()
			case <-ctx.Done():
			}
		}()
		conn, err := c.dial(ctx)
		cancel()
		if err != nil {
			select {
			case <-stop:
				return nil
			default:
			}
			c.fireError(err)
			continue
		}

		c.mu.Lock()
		if c.loopDone != done {
			c.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		c.conn = conn
		c.open.Store(true)
		c.mu.Unlock()

		metrics.LiveConnectionEventsTotal.WithLabelValues("reconnect").Inc()
		c.fireOpen()
		return conn
	}
	return nil
}

// release clears the channel after the loop gave up on its own, so the next
// Connect is honored.
func (c *Channel) release(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loopDone == done {
		c.conn, c.stop, c.loopDone = nil, nil, nil
		c.open.Store(false)
	}
}

func (c *Channel) fireOpen() {
	metrics.LiveConnectionEventsTotal.WithLabelValues("open").Inc()
	c.log.Info().Str("url", c.url).Msg("live channel open")
	if c.opts.Callbacks.OnOpen != nil {
		c.opts.Callbacks.OnOpen()
	}
}

func (c *Channel) fireClose(err error) {
	metrics.LiveConnectionEventsTotal.WithLabelValues("close").Inc()
	c.log.Info().AnErr("cause", err).Msg("live channel closed")
	if c.opts.Callbacks.OnClose != nil {
		c.opts.Callbacks.OnClose(err)
	}
}

func (c *Channel) fireError(err error) {
	if err == nil {
		return
	}
	metrics.LiveConnectionEventsTotal.WithLabelValues("error").Inc()
	c.log.Warn().Err(err).Msg("live channel error")
	if c.opts.Callbacks.OnError != nil {
		c.opts.Callbacks.OnError(err)
	}
}
