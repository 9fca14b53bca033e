package input

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hand-sphere/event"
)

// MouseTracker follows the terminal mouse
// The pointer is lost when it leaves the canvas or stops moving for idle
type MouseTracker struct {
	q      *event.EventQueue
	mirror bool
	idle   time.Duration
	now    func() time.Time

	mu       sync.Mutex
	cols     int
	rows     int
	present  bool
	lastMove time.Time
}

// NewMouseTracker creates a tracker for a canvas of cols x rows cells
// A non-positive idle disables the idle timeout
func NewMouseTracker(q *event.EventQueue, cols, rows int, mirror bool, idle time.Duration) *MouseTracker {
	return &MouseTracker{
		q:      q,
		mirror: mirror,
		idle:   idle,
		now:    time.Now,
		cols:   cols,
		rows:   rows,
	}
}

// Resize updates the canvas dimensions in cells
func (m *MouseTracker) Resize(cols, rows int) {
	m.mu.Lock()
	m.cols, m.rows = cols, rows
	m.mu.Unlock()
}

// HandleMouse converts a terminal mouse event into a detection or loss
// Returns true when a button was pressed
func (m *MouseTracker) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cols <= 0 || m.rows <= 0 || x < 0 || y < 0 || x >= m.cols || y >= m.rows {
		if m.present {
			m.present = false
			pushLost(m.q)
		}
	} else {
		nx := (float64(x) + 0.5) / float64(m.cols)
		ny := (float64(y) + 0.5) / float64(m.rows)
		m.present = pushDetect(m.q, nx, ny, m.mirror)
		m.lastMove = m.now()
	}

	return ev.Buttons()&(tcell.Button1|tcell.Button2|tcell.Button3) != 0
}

// Run reports a loss after the idle timeout
func (m *MouseTracker) Run(ctx context.Context) error {
	if m.idle <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(m.idle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.checkIdle()
		}
	}
}

func (m *MouseTracker) checkIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.present && m.now().Sub(m.lastMove) >= m.idle {
		m.present = false
		pushLost(m.q)
	}
}
