// Package network owns the relay connection: it joins the room, keeps the
// connection alive, turns inbound frames into queued update events, and turns
// local pointer changes into outbound broadcast frames.
package network

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/logger"
	"github.com/lixenwraith/hand-sphere/protocol"
)

// Sentinel errors
var (
	ErrRoomRequired = errors.New("room name required")
	ErrNotConnected = errors.New("not connected")
)

const noID = -1

// Client is the relay sync client
// Inbound frames are pushed onto the event queue; the loop applies them
type Client struct {
	config *Config
	queue  *event.EventQueue
	log    logrus.FieldLogger
	dialer *websocket.Dialer

	state      atomic.Uint32 // event.ConnState
	ownID      atomic.Int64
	generation atomic.Uint64

	mu   sync.RWMutex
	conn *connection

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	malformed atomic.Uint64
}

// NewClient creates a disconnected client
func NewClient(cfg *Config, queue *event.EventQueue, log logrus.FieldLogger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReconnectStableAfter <= 0 {
		withDefault := *cfg
		withDefault.ReconnectStableAfter = constants.ReconnectStableAfter
		cfg = &withDefault
	}
	c := &Client{
		config: cfg,
		queue:  queue,
		log:    logger.OrDiscard(log).WithField("room", cfg.Room),
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.DialTimeout,
		},
	}
	c.ownID.Store(noID)
	return c
}

// Start begins connecting in the background
func (c *Client) Start(ctx context.Context) error {
	if c.config.Room == "" {
		return ErrRoomRequired
	}
	if !c.running.CompareAndSwap(false, true) {
		return nil // Already running
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.setState(event.ConnConnecting, 0, nil)
	c.wg.Add(1)
	go c.run(ctx)
	return nil
}

// Stop closes the connection and waits for the client goroutines
func (c *Client) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	c.cancel()
	c.wg.Wait()
}

// run dials and serves connections until cancelled, or until the connection
// is lost with reconnect disabled or its retry budget spent
func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()

	var retry *retryPolicy
	if c.config.Reconnect {
		retry = newRetryPolicy(c.config)
	}

	for {
		ws, err := c.dial(ctx)
		if err == nil {
			var stable bool
			stable, err = c.serve(ctx, ws)
			if stable && retry != nil {
				retry.reset()
			}
		}

		if ctx.Err() != nil {
			c.setState(event.ConnDisconnected, c.generation.Load(), nil)
			return
		}
		if retry == nil || errors.Is(err, ErrHandshakeRejected) {
			c.log.WithError(err).Warn("relay connection ended")
			c.setState(event.ConnDisconnected, c.generation.Load(), err)
			return
		}

		wait, ok := retry.next()
		if !ok {
			c.log.WithError(err).WithField("tries", retry.tries).Error("relay unreachable, giving up")
			c.setState(event.ConnDisconnected, c.generation.Load(), err)
			return
		}

		c.log.WithError(err).WithField("retry_in", wait).Warn("relay connection lost, reconnecting")
		c.setState(event.ConnConnecting, c.generation.Load(), err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.setState(event.ConnDisconnected, c.generation.Load(), nil)
			return
		case <-timer.C:
		}
	}
}

// serve runs one connection: join sequence, then read until failure
// stable reports whether the connection received its identity or stayed up
// long enough to reset the reconnect budget
func (c *Client) serve(ctx context.Context, ws *websocket.Conn) (stable bool, err error) {
	conn := newConnection(ws, c.config, c.log)
	gen := c.generation.Add(1)
	c.ownID.Store(noID)
	opened := time.Now()

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
	}()

	go conn.writeLoop()
	stop := context.AfterFunc(ctx, conn.close)
	defer stop()

	if err := c.join(conn); err != nil {
		conn.close()
		<-conn.done
		return false, err
	}

	c.setState(event.ConnJoined, gen, nil)
	c.log.WithField("generation", gen).Info("joined relay room")

	err = conn.readLoop(c.handleFrame)
	<-conn.done

	_, identified := c.OwnID()
	stable = identified || time.Since(opened) >= c.config.ReconnectStableAfter
	return stable, err
}

// join queues enter-room then subscribe-client-count; the single writer
// preserves their order on the wire
func (c *Client) join(conn *connection) error {
	enter, err := protocol.EnterRoom(c.config.Room)
	if err != nil {
		return err
	}
	subscribe, err := protocol.SubscribeClientCount()
	if err != nil {
		return err
	}
	if !conn.send(enter) || !conn.send(subscribe) {
		return ErrNotConnected
	}
	return nil
}

// handleFrame maps one inbound frame to queued events
// Never fails: empty frames are skipped and malformed ones dropped
func (c *Client) handleFrame(data []byte) {
	msg, err := protocol.ParseInbound(data)
	if err != nil {
		if !errors.Is(err, protocol.ErrEmptyPayload) {
			c.malformed.Add(1)
			c.log.WithError(err).Debug("dropping malformed frame")
		}
		return
	}

	switch m := msg.(type) {
	case protocol.ClientID:
		if !c.ownID.CompareAndSwap(noID, int64(m.ID)) {
			c.log.WithField("client_id", m.ID).Debug("redundant identity assignment")
		} else {
			c.log.WithField("client_id", m.ID).Info("identity assigned")
		}
		c.push(event.EventIdentity, event.IdentityPayload{ID: m.ID})

	case protocol.ClientCount:
		c.push(event.EventParticipants, event.ParticipantsPayload{Count: m.Count})

	case protocol.Move:
		c.push(event.EventRemoteMove, event.RemoteMovePayload{Sender: m.Sender, X: m.X, Y: m.Y})

	case protocol.End:
		c.push(event.EventRemoteEnd, event.RemoteEndPayload{Sender: m.Sender})

	case protocol.RelayError:
		c.log.WithField("relay_error", m.Text).Warn("relay reported error")

	case protocol.Unknown:
		c.log.WithField("selector", m.Selector).Debug("ignoring unknown selector")
	}
}

func (c *Client) push(t event.EventType, payload any) {
	if c.queue != nil {
		c.queue.Push(event.UpdateEvent{Type: t, Payload: payload})
	}
}

func (c *Client) setState(s event.ConnState, gen uint64, err error) {
	c.state.Store(uint32(s))
	c.push(event.EventConnState, event.ConnStatePayload{State: s, Generation: gen, Err: err})
}

// State returns the current connection state
func (c *Client) State() event.ConnState {
	return event.ConnState(c.state.Load())
}

// OwnID returns the identity assigned on the current connection
func (c *Client) OwnID() (int, bool) {
	id := c.ownID.Load()
	if id == noID {
		return 0, false
	}
	return int(id), true
}

// SendMove broadcasts the local pointer in normalized coordinates
// Dropped silently until joined with an identity
func (c *Client) SendMove(nx, ny float64) bool {
	id, ok := c.OwnID()
	if !ok {
		return false
	}
	frame, err := protocol.BroadcastMove(id, nx, ny)
	if err != nil {
		return false
	}
	return c.send(frame)
}

// SendEnd broadcasts removal of the local pointer
func (c *Client) SendEnd() bool {
	id, ok := c.OwnID()
	if !ok {
		return false
	}
	frame, err := protocol.BroadcastEnd(id)
	if err != nil {
		return false
	}
	return c.send(frame)
}

func (c *Client) send(frame []byte) bool {
	if c.State() != event.ConnJoined {
		return false
	}
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.send(frame)
}

// Stats reports frames sent and dropped on the current connection and
// malformed inbound frames over the client's lifetime
func (c *Client) Stats() (sent, dropped, malformed uint64) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn != nil {
		sent, dropped = conn.sent.Load(), conn.dropped.Load()
	}
	return sent, dropped, c.malformed.Load()
}
