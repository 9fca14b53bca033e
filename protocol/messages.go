package protocol

import "fmt"

// Outbound requests

// EnterRoom requests room membership
func EnterRoom(room string) ([]byte, error) {
	if room == "" {
		return nil, fmt.Errorf("%w: empty room", ErrMalformed)
	}
	return Encode(SelEnterRoom, room)
}

// ExitRoom leaves the current room
func ExitRoom() ([]byte, error) {
	return Encode(SelExitRoom)
}

// SubscribeClientCount opts into count updates
func SubscribeClientCount() ([]byte, error) {
	return Encode(SelSubscribeClientCount)
}

// BroadcastMove wraps a move for the room
func BroadcastMove(id int, nx, ny float64) ([]byte, error) {
	return Encode(SelBroadcastMessage, []any{SelMove, id, nx, ny})
}

// BroadcastEnd wraps an end for the room
func BroadcastEnd(id int) ([]byte, error) {
	return Encode(SelBroadcastMessage, []any{SelEnd, id})
}

// Inbound messages, as seen by a client

// ClientID assigns the client identity
type ClientID struct {
	ID int
}

// ClientCount reports the room population
type ClientCount struct {
	Count int
}

// Move is a remote pointer update in normalized coordinates
type Move struct {
	Sender int
	X, Y   float64
}

// End removes a remote pointer
type End struct {
	Sender int
}

// RelayError is an error report from the relay
type RelayError struct {
	Text string
}

// Unknown is any selector this client does not interpret
type Unknown struct {
	Selector string
}

// ParseInbound decodes a frame into one of the inbound message types
// Empty frames return ErrEmptyPayload, bad shapes wrap ErrMalformed
func ParseInbound(b []byte) (any, error) {
	m, err := Decode(b)
	if err != nil {
		return nil, err
	}

	switch m.Selector {
	case SelClientID:
		id, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		return ClientID{ID: id}, nil

	case SelClientCount:
		n, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		return ClientCount{Count: n}, nil

	case SelMove:
		id, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		x, err := m.Float(1)
		if err != nil {
			return nil, err
		}
		y, err := m.Float(2)
		if err != nil {
			return nil, err
		}
		return Move{Sender: id, X: x, Y: y}, nil

	case SelEnd:
		id, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		return End{Sender: id}, nil

	case SelError:
		text, _ := m.String(0)
		return RelayError{Text: text}, nil

	default:
		return Unknown{Selector: m.Selector}, nil
	}
}
