// Package protocol implements the relay wire format: one JSON array per
// websocket text frame, selector first.
//
//	["*enter-room*", "hand-sphere-room"]
//	["*broadcast-message*", ["move", 3, 0.42, 0.61]]
//	["*client-id*", 3]
//
// An empty frame is a keep-alive and carries no message.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Relay control selectors
const (
	SelEnterRoom              = "*enter-room*"
	SelExitRoom               = "*exit-room*"
	SelSubscribeClientCount   = "*subscribe-client-count*"
	SelUnsubscribeClientCount = "*unsubscribe-client-count*"
	SelBroadcastMessage       = "*broadcast-message*"
	SelClientID               = "*client-id*"
	SelClientCount            = "*client-count*"
	SelError                  = "*error*"
)

// Application selectors carried inside broadcast messages
const (
	SelMove = "move"
	SelEnd  = "end"
)

// Sentinel errors
var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrMalformed    = errors.New("malformed message")
	ErrArgMissing   = errors.New("argument missing")
)

// KeepAlive is the empty keep-alive frame
var KeepAlive = []byte{}

// Message is a decoded frame
type Message struct {
	Selector string
	Args     []json.RawMessage
}

// Encode builds a frame from a selector and its arguments
func Encode(selector string, args ...any) ([]byte, error) {
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrMalformed)
	}
	frame := make([]any, 0, len(args)+1)
	frame = append(frame, selector)
	frame = append(frame, args...)
	return json.Marshal(frame)
}

// Decode parses a frame
// Empty frames return ErrEmptyPayload and must be ignored by callers
func Decode(b []byte) (*Message, error) {
	if len(b) == 0 {
		return nil, ErrEmptyPayload
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrMalformed)
	}
	var sel string
	if err := json.Unmarshal(raw[0], &sel); err != nil {
		return nil, fmt.Errorf("%w: selector not a string", ErrMalformed)
	}
	return &Message{Selector: sel, Args: raw[1:]}, nil
}

// Arg returns the raw argument at i
func (m *Message) Arg(i int) (json.RawMessage, error) {
	if i < 0 || i >= len(m.Args) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrArgMissing, m.Selector, i)
	}
	return m.Args[i], nil
}

// Float returns argument i as a finite number
func (m *Message) Float(i int) (float64, error) {
	raw, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	var f float64
	if string(raw) == "null" {
		return 0, fmt.Errorf("%w: %s[%d] is null", ErrMalformed, m.Selector, i)
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("%w: %s[%d] not a number", ErrMalformed, m.Selector, i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s[%d] not finite", ErrMalformed, m.Selector, i)
	}
	return f, nil
}

// Int returns argument i as an integer; integral floats are accepted
func (m *Message) Int(i int) (int, error) {
	f, err := m.Float(i)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s[%d] not an integer", ErrMalformed, m.Selector, i)
	}
	return int(f), nil
}

// String returns argument i as a string
func (m *Message) String(i int) (string, error) {
	raw, err := m.Arg(i)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s[%d] not a string", ErrMalformed, m.Selector, i)
	}
	return s, nil
}

// Bool returns argument i as a bool, or def when absent
func (m *Message) Bool(i int, def bool) (bool, error) {
	if i >= len(m.Args) {
		return def, nil
	}
	var b bool
	if err := json.Unmarshal(m.Args[i], &b); err != nil {
		return def, fmt.Errorf("%w: %s[%d] not a bool", ErrMalformed, m.Selector, i)
	}
	return b, nil
}
