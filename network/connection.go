package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// connection is one open relay websocket
// writeLoop is the only writer of data frames; reads happen on the caller
type connection struct {
	ws   *websocket.Conn
	log  logrus.FieldLogger
	open atomic.Bool

	// Send queue
	sendCh chan []byte

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}

	keepAlive    time.Duration
	writeTimeout time.Duration

	sent    atomic.Uint64
	dropped atomic.Uint64
}

func newConnection(ws *websocket.Conn, cfg *Config, log logrus.FieldLogger) *connection {
	c := &connection{
		ws:           ws,
		log:          log,
		sendCh:       make(chan []byte, cfg.SendQueueSize),
		closeCh:      make(chan struct{}),
		done:         make(chan struct{}),
		keepAlive:    cfg.KeepAlive,
		writeTimeout: cfg.WriteTimeout,
	}
	c.open.Store(true)
	return c
}

// send queues a frame for transmission
// Returns false if the connection is closed or the queue is full
func (c *connection) send(frame []byte) bool {
	if !c.open.Load() {
		c.dropped.Add(1)
		return false
	}
	select {
	case c.sendCh <- frame:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// close initiates shutdown; safe to call from any goroutine
func (c *connection) close() {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.closeCh)
		deadline := time.Now().Add(c.writeTimeout)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := c.ws.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			c.log.WithError(err).Debug("write close frame failed")
		}
		if err := c.ws.Close(); err != nil {
			c.log.WithError(err).Debug("close websocket failed")
		}
	})
}

// writeLoop sends queued frames and the periodic keep-alive
func (c *connection) writeLoop() {
	defer close(c.done)
	defer c.close()

	var tick <-chan time.Time
	if c.keepAlive > 0 {
		ticker := time.NewTicker(c.keepAlive)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-c.closeCh:
			return
		case frame := <-c.sendCh:
			if err := c.write(frame); err != nil {
				c.log.WithError(err).Debug("write frame failed")
				return
			}
		case <-tick:
			if err := c.write(nil); err != nil {
				c.log.WithError(err).Debug("keep-alive failed")
				return
			}
		}
	}
}

func (c *connection) write(frame []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return err
	}
	c.sent.Add(1)
	return nil
}

// readLoop delivers inbound frames to handler until the connection fails
func (c *connection) readLoop(handler func([]byte)) error {
	defer c.close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return err
		}
		handler(data)
	}
}
