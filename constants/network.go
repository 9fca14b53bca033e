package constants

import "time"

// Relay Defaults
const (
	// DefaultRelayURL is the public web-rooms relay
	DefaultRelayURL = "wss://nosch.uber.space/web-rooms/"

	// DefaultRoom is the room every client enters
	DefaultRoom = "hand-sphere-room"

	// DefaultListenAddr is the bind address of the bundled relay
	DefaultListenAddr = ":3000"
)

// Relay Connection Timing
const (
	// KeepAliveInterval is the period of the empty keep-alive frame
	KeepAliveInterval = 30 * time.Second

	// DialTimeout bounds the websocket handshake
	DialTimeout = 10 * time.Second

	// WriteTimeout bounds a single frame write
	WriteTimeout = 5 * time.Second

	// ReconnectMaxElapsed bounds the total time spent reconnecting
	ReconnectMaxElapsed = 2 * time.Minute

	// ReconnectMaxTries bounds the number of reconnect attempts
	ReconnectMaxTries = 8

	// ReconnectInitialDelay is the first backoff interval
	ReconnectInitialDelay = 500 * time.Millisecond

	// ReconnectStableAfter is the uptime after which a connection resets the backoff
	// A connection that received its identity counts as stable at once
	ReconnectStableAfter = 10 * time.Second
)

// Relay Buffers
const (
	// SendQueueSize is the outbound frame buffer; frames beyond it are dropped
	SendQueueSize = 64

	// MaxMessageSize is the largest inbound frame accepted by the relay
	MaxMessageSize = 4096
)
