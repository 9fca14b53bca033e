package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

// ErrHandshakeRejected is returned when the relay refuses the upgrade
var ErrHandshakeRejected = errors.New("relay rejected handshake")

// dial opens one websocket to the relay
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.config.DialTimeout)
	defer cancel()

	ws, resp, err := c.dialer.DialContext(dctx, c.config.URL, nil)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil &&
			resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", ErrHandshakeRejected, resp.Status)
		}
		return nil, err
	}
	return ws, nil
}

// retryPolicy bounds reconnect attempts over the life of a client
// A connection that drops before proving stable counts as a failed try
type retryPolicy struct {
	delays     *backoff.ExponentialBackOff
	maxTries   uint
	maxElapsed time.Duration
	now        func() time.Time

	tries uint
	start time.Time
}

func newRetryPolicy(cfg *Config) *retryPolicy {
	b := backoff.NewExponentialBackOff()
	if cfg.ReconnectInitialDelay > 0 {
		b.InitialInterval = cfg.ReconnectInitialDelay
	}
	r := &retryPolicy{
		delays:     b,
		maxTries:   cfg.ReconnectMaxTries,
		maxElapsed: cfg.ReconnectMaxElapsed,
		now:        time.Now,
	}
	r.reset()
	return r
}

// reset starts a fresh outage window
func (r *retryPolicy) reset() {
	r.delays.Reset()
	r.tries = 0
	r.start = r.now()
}

// next records a failed try and returns the wait before the following one
// ok is false once the try or elapsed budget is spent
func (r *retryPolicy) next() (wait time.Duration, ok bool) {
	r.tries++
	if r.maxTries > 0 && r.tries >= r.maxTries {
		return 0, false
	}
	wait = r.delays.NextBackOff()
	if r.maxElapsed > 0 && r.now().Sub(r.start)+wait > r.maxElapsed {
		return 0, false
	}
	return wait, true
}
