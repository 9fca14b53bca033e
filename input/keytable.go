package input

import "github.com/gdamore/tcell/v2"

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, Esc)
	SpecialKeys map[tcell.Key]IntentType

	// Rune bindings
	Runes map[rune]IntentType
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]IntentType{
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyCtrlQ:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
			tcell.KeyCtrlS:  IntentToggleMute,
		},
		Runes: map[rune]IntentType{
			'q': IntentQuit,
			'Q': IntentQuit,
			'm': IntentToggleMute,
			'M': IntentToggleMute,
		},
	}
}

// Lookup classifies a key event; unbound keys count as a gesture
func (kt *KeyTable) Lookup(ev *tcell.EventKey) IntentType {
	if ev.Key() == tcell.KeyRune {
		if it, ok := kt.Runes[ev.Rune()]; ok {
			return it
		}
		return IntentGesture
	}
	if it, ok := kt.SpecialKeys[ev.Key()]; ok {
		return it
	}
	return IntentGesture
}
