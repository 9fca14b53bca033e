package input

// IntentType discriminates semantic actions from terminal keys and clicks
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // q, Esc, Ctrl+C, Ctrl+Q
	IntentToggleMute // m, Ctrl+S
	IntentGesture    // Any other key or mouse button; resumes audio
)

func (t IntentType) String() string {
	switch t {
	case IntentQuit:
		return "quit"
	case IntentToggleMute:
		return "toggle-mute"
	case IntentGesture:
		return "gesture"
	default:
		return "none"
	}
}
