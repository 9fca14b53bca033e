package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/field"
	"github.com/lixenwraith/hand-sphere/render"
)

// statusText renders the one-line status bar
//
//	User: #3 / Total: 2 | online | hand
func (l *Loop) statusText() string {
	id := "-"
	if own, ok := l.session.OwnID(); ok {
		id = strconv.Itoa(own)
	}

	var conn string
	switch l.conn {
	case event.ConnJoined:
		conn = "online"
	case event.ConnConnecting:
		conn = "connecting"
	default:
		conn = "offline"
	}

	hand := "no hand"
	if l.local.Valid {
		hand = "hand"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: #%s / Total: %d | %s | %s", id, l.session.Participants(), conn, hand)

	if l.feedback != nil {
		switch {
		case l.feedback.Silent():
			b.WriteString(" | no audio")
		case l.feedback.Suspended():
			b.WriteString(" | muted")
		}
	}
	return b.String()
}

// statusSwatch is the own identity color, neutral until assigned
func (l *Loop) statusSwatch() render.RGB {
	if own, ok := l.session.OwnID(); ok {
		return field.ColorFor(own)
	}
	return render.RGBNeutral
}
