package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

// ErrClosed is returned when sending on a closed connection
var ErrClosed = errors.New("connection closed")

// Hooks observe the connection lifecycle
type Hooks struct {
	OnOpen  func(url string)
	OnError func(err error)
	OnClose func(code int, text string)
}

// Options configures Dial. Zero values select defaults.
type Options struct {
	Dialer      *websocket.Dialer
	Header      http.Header
	Hooks       Hooks
	SendBuffer  int
	FrameBuffer int
	PongWait    time.Duration
	PingPeriod  time.Duration
}

// Conn is one client connection
type Conn struct {
	ws     *websocket.Conn
	url    string
	send   chan []byte
	frames chan []byte
	done   chan struct{}
	hooks  Hooks

	pongWait   time.Duration
	pingPeriod time.Duration

	closeOnce sync.Once
	log       log15.Logger
}

// Dial opens the connection to target. It does not retry.
func Dial(ctx context.Context, target Target, opts Options) (*Conn, error) {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	if opts.FrameBuffer <= 0 {
		opts.FrameBuffer = 256
	}
	if opts.PongWait <= 0 {
		opts.PongWait = pongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = (opts.PongWait * 9) / 10
	}

	logger := log15.New("pkg", "websocket")
	hooks := withDefaultHooks(opts.Hooks, logger)
	url := target.URL()

	ws, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %d)", err, resp.StatusCode)
		}
		hooks.OnError(err)
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	c := &Conn{
		ws:         ws,
		url:        url,
		send:       make(chan []byte, opts.SendBuffer),
		frames:     make(chan []byte, opts.FrameBuffer),
		done:       make(chan struct{}),
		hooks:      hooks,
		pongWait:   opts.PongWait,
		pingPeriod: opts.PingPeriod,
		log:        logger.New("url", url),
	}
	hooks.OnOpen(url)
	return c, nil
}

func withDefaultHooks(h Hooks, logger log15.Logger) Hooks {
	if h.OnOpen == nil {
		h.OnOpen = func(url string) { logger.Info("socket opened", "url", url) }
	}
	if h.OnError == nil {
		h.OnError = func(err error) { logger.Error("socket error", "err", err) }
	}
	if h.OnClose == nil {
		h.OnClose = func(code int, text string) { logger.Info("socket closed", "code", code, "reason", text) }
	}
	return h
}

// URL returns the dialed endpoint.
func (c *Conn) URL() string {
	return c.url
}

// Frames delivers inbound text frames. It is closed when Run returns.
func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Send encodes msg as JSON and queues it for the write pump.
func (c *Conn) Send(msg any) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Run pumps frames until the connection ends. It returns nil on a normal
// close, the context error on cancellation, and the read error otherwise.
func (c *Conn) Run(ctx context.Context) error {
	defer close(c.frames)

	go c.writePump()
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()

	err := c.readPump()
	c.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close sends a close frame and tears the socket down. It is safe to call
// more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// readPump pumps frames from the websocket connection to Frames
func (c *Conn) readPump() error {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return c.readFailed(err)
		}
		if kind != websocket.TextMessage {
			c.log.Debug("ignoring non-text frame", "kind", kind)
			continue
		}

		// Any inbound frame proves the peer is alive.
		c.ws.SetReadDeadline(time.Now().Add(c.pongWait))

		select {
		case c.frames <- data:
		case <-c.done:
			return nil
		}
	}
}

func (c *Conn) readFailed(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		c.hooks.OnClose(closeErr.Code, closeErr.Text)
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.hooks.OnError(err)
			return err
		}
		return nil
	}

	if c.closed() {
		c.hooks.OnClose(websocket.CloseNormalClosure, "closed by client")
		return nil
	}

	c.hooks.OnError(err)
	c.hooks.OnClose(websocket.CloseAbnormalClosure, err.Error())
	return err
}

// writePump pumps queued messages to the websocket connection
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("write failed", "err", err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Warn("ping failed", "err", err)
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}
