package input

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hand-sphere/event"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func expectDetect(t *testing.T, ev event.UpdateEvent, x, y float64) {
	t.Helper()
	if ev.Type != event.EventLocalDetect {
		t.Fatalf("Expected detect, got %s", ev.Type)
	}
	p := ev.Payload.(event.LocalDetectPayload)
	if !near(p.X, x) || !near(p.Y, y) {
		t.Errorf("Expected (%f,%f), got (%f,%f)", x, y, p.X, p.Y)
	}
}

func expectLost(t *testing.T, ev event.UpdateEvent) {
	t.Helper()
	if ev.Type != event.EventLocalLost {
		t.Errorf("Expected lost, got %s", ev.Type)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		x, y    float64
		found   bool
		wantErr bool
	}{
		{"0.25 0.5", 0.25, 0.5, true, false},
		{"0.25,0.5", 0.25, 0.5, true, false},
		{"  0.1\t0.9  ", 0.1, 0.9, true, false},
		{`{"x":0.3,"y":0.7}`, 0.3, 0.7, true, false},
		{`{"x":0.3}`, 0, 0, false, false},
		{"none", 0, 0, false, false},
		{"", 0, 0, false, false},
		{"-", 0, 0, false, false},
		{"0.5", 0, 0, false, true},
		{"a b", 0, 0, false, true},
		{`{"x":`, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			x, y, found, err := ParseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if found != tt.found || !near(x, tt.x) || !near(y, tt.y) {
				t.Errorf("Expected (%f,%f,%v), got (%f,%f,%v)", tt.x, tt.y, tt.found, x, y, found)
			}
		})
	}
}

func TestLineTrackerRun(t *testing.T) {
	q := event.NewEventQueue()
	src := strings.NewReader("0.25 0.5\nnone\ngarbage\n{\"x\":0.1,\"y\":0.2}\n1.5 0.5\n")
	tr := NewLineTracker(src, q, true, nil)

	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	evs := q.Consume()
	if len(evs) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(evs))
	}
	expectDetect(t, evs[0], 0.75, 0.5) // mirrored
	expectLost(t, evs[1])
	expectDetect(t, evs[2], 0.9, 0.2)
	expectLost(t, evs[3]) // out of range
	expectLost(t, evs[4]) // end of source
}

func TestMouseTracker(t *testing.T) {
	q := event.NewEventQueue()
	m := NewMouseTracker(q, 10, 4, false, time.Second)

	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }

	if m.HandleMouse(tcell.NewEventMouse(4, 1, tcell.ButtonNone, tcell.ModNone)) {
		t.Error("Expected motion not to count as a press")
	}
	if !m.HandleMouse(tcell.NewEventMouse(4, 1, tcell.Button1, tcell.ModNone)) {
		t.Error("Expected button press")
	}
	// Status row is outside the canvas
	m.HandleMouse(tcell.NewEventMouse(4, 4, tcell.ButtonNone, tcell.ModNone))
	// Repeated outside events do not repeat the loss
	m.HandleMouse(tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone))

	evs := q.Consume()
	if len(evs) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(evs))
	}
	expectDetect(t, evs[0], 0.45, 0.375)
	expectDetect(t, evs[1], 0.45, 0.375)
	expectLost(t, evs[2])
}

func TestMouseTrackerIdle(t *testing.T) {
	q := event.NewEventQueue()
	m := NewMouseTracker(q, 10, 4, true, time.Second)

	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }

	m.HandleMouse(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	q.Consume()

	clock = clock.Add(500 * time.Millisecond)
	m.checkIdle()
	if q.Len() != 0 {
		t.Fatalf("Expected no loss before idle timeout, got %d events", q.Len())
	}

	clock = clock.Add(time.Second)
	m.checkIdle()
	m.checkIdle()
	evs := q.Consume()
	if len(evs) != 1 {
		t.Fatalf("Expected 1 loss, got %d events", len(evs))
	}
	expectLost(t, evs[0])
}

func TestMouseTrackerResize(t *testing.T) {
	q := event.NewEventQueue()
	m := NewMouseTracker(q, 10, 4, false, 0)
	m.Resize(20, 8)

	m.HandleMouse(tcell.NewEventMouse(15, 6, tcell.ButtonNone, tcell.ModNone))
	evs := q.Consume()
	if len(evs) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(evs))
	}
	expectDetect(t, evs[0], 15.5/20, 6.5/8)
}

func TestOrbitPosition(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.Period = 4 * time.Second
	cfg.Gap = 0.25
	o := NewOrbitTracker(event.NewEventQueue(), cfg, false)

	x, y, ok := o.Position(0)
	if !ok || !near(x, 0.8) || !near(y, 0.5) {
		t.Errorf("Expected (0.8,0.5) at start, got (%f,%f,%v)", x, y, ok)
	}

	x, y, ok = o.Position(time.Second)
	if !ok || !near(x, 0.5) || !near(y, 0.8) {
		t.Errorf("Expected (0.5,0.8) at quarter turn, got (%f,%f,%v)", x, y, ok)
	}

	if _, _, ok := o.Position(3500 * time.Millisecond); ok {
		t.Error("Expected no hand inside the gap")
	}

	// Next period starts visible again
	if _, _, ok := o.Position(4 * time.Second); !ok {
		t.Error("Expected hand at start of next period")
	}
}

func TestOrbitRun(t *testing.T) {
	q := event.NewEventQueue()
	cfg := DefaultOrbitConfig()
	cfg.Interval = time.Millisecond
	o := NewOrbitTracker(q, cfg, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := o.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	evs := q.Consume()
	if len(evs) == 0 {
		t.Fatal("Expected detections")
	}
	for _, ev := range evs {
		if ev.Type != event.EventLocalDetect {
			t.Errorf("Expected only detections early in the orbit, got %s", ev.Type)
		}
	}
}

func TestKeyTableLookup(t *testing.T) {
	kt := DefaultKeyTable()

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want IntentType
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), IntentQuit},
		{"m", tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), IntentToggleMute},
		{"x", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), IntentGesture},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), IntentQuit},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), IntentQuit},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), IntentGesture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kt.Lookup(tt.ev); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindMouse, KindStdin, KindOrbit} {
		if !k.Valid() {
			t.Errorf("Expected %s valid", k)
		}
	}
	if Kind("camera").Valid() {
		t.Error("Expected unknown kind invalid")
	}
}
