package event

// EventType represents the type of update event
type EventType int

const (
	// === Network Event ===

	// EventConnState signals a relay connection state change
	// Trigger: network.Client | Payload: ConnStatePayload
	EventConnState EventType = iota

	// EventIdentity carries the relay-assigned identity
	// Trigger: network.Client on *client-id* | Payload: IdentityPayload
	EventIdentity

	// EventParticipants carries the room population
	// Trigger: network.Client on *client-count* | Payload: ParticipantsPayload
	EventParticipants

	// EventRemoteMove carries a remote pointer update
	// Trigger: network.Client on move | Payload: RemoteMovePayload
	EventRemoteMove

	// EventRemoteEnd removes a remote pointer
	// Trigger: network.Client on end | Payload: RemoteEndPayload
	EventRemoteEnd

	// === Tracker Event ===

	// EventLocalDetect places the local pointer
	// Trigger: input.Tracker detection | Payload: LocalDetectPayload
	EventLocalDetect

	// EventLocalLost signals loss of local input
	// Trigger: input.Tracker with no detection | Payload: nil
	EventLocalLost

	// === Terminal Event ===

	// EventResize signals a viewport size change
	// Trigger: terminal resize | Payload: nil
	EventResize

	// EventGesture signals a user interaction that may resume audio
	// Trigger: key press or mouse click | Payload: nil
	EventGesture

	// EventToggleMute suspends or resumes audio output
	// Trigger: mute key | Payload: nil
	EventToggleMute

	// EventQuit stops the loop
	// Trigger: quit key or signal | Payload: nil
	EventQuit
)

// String returns the event name for logs
func (t EventType) String() string {
	switch t {
	case EventConnState:
		return "conn_state"
	case EventIdentity:
		return "identity"
	case EventParticipants:
		return "participants"
	case EventRemoteMove:
		return "remote_move"
	case EventRemoteEnd:
		return "remote_end"
	case EventLocalDetect:
		return "local_detect"
	case EventLocalLost:
		return "local_lost"
	case EventResize:
		return "resize"
	case EventGesture:
		return "gesture"
	case EventToggleMute:
		return "toggle_mute"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// UpdateEvent is one queued update
type UpdateEvent struct {
	Type    EventType
	Payload any
}
