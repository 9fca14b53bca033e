package event

// ConnState mirrors the relay connection lifecycle
type ConnState uint8

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnJoined
)

// String returns the state name
func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnJoined:
		return "joined"
	default:
		return "disconnected"
	}
}

// ConnStatePayload reports a connection transition
// Generation increments per established connection
type ConnStatePayload struct {
	State      ConnState
	Generation uint64
	Err        error
}

// IdentityPayload carries the relay-assigned identity
type IdentityPayload struct {
	ID int
}

// ParticipantsPayload carries the room population
type ParticipantsPayload struct {
	Count int
}

// RemoteMovePayload is a remote pointer in normalized coordinates
type RemoteMovePayload struct {
	Sender int
	X, Y   float64
}

// RemoteEndPayload removes a remote pointer
type RemoteEndPayload struct {
	Sender int
}

// LocalDetectPayload is a local detection in normalized coordinates
type LocalDetectPayload struct {
	X, Y float64
}
