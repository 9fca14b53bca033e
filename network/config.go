package network

import (
	"time"

	"github.com/lixenwraith/hand-sphere/constants"
)

// Config holds relay client configuration
type Config struct {
	// Relay websocket URL
	URL string

	// Room entered after the connection opens
	Room string

	// Timing
	KeepAlive    time.Duration
	DialTimeout  time.Duration
	WriteTimeout time.Duration

	// Outbound frames beyond this buffer are dropped
	SendQueueSize int

	// Reconnect enables bounded retry with exponential backoff
	// Off means a dropped connection stays down
	// Tries and elapsed time count across connect and serve cycles until a
	// connection proves stable
	Reconnect             bool
	ReconnectMaxTries     uint
	ReconnectMaxElapsed   time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectStableAfter  time.Duration
}

// DefaultConfig returns the public relay defaults
func DefaultConfig() *Config {
	return &Config{
		URL:                   constants.DefaultRelayURL,
		Room:                  constants.DefaultRoom,
		KeepAlive:             constants.KeepAliveInterval,
		DialTimeout:           constants.DialTimeout,
		WriteTimeout:          constants.WriteTimeout,
		SendQueueSize:         constants.SendQueueSize,
		Reconnect:             false,
		ReconnectMaxTries:     constants.ReconnectMaxTries,
		ReconnectMaxElapsed:   constants.ReconnectMaxElapsed,
		ReconnectInitialDelay: constants.ReconnectInitialDelay,
		ReconnectStableAfter:  constants.ReconnectStableAfter,
	}
}
