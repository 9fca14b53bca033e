package input

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/event"
	"github.com/lixenwraith/hand-sphere/logger"
)

// ErrBadLine is returned for detector lines that cannot be parsed
var ErrBadLine = errors.New("bad detector line")

// LineTracker reads detections from an external detector process, one line
// per processed frame:
//
//	0.42 0.61
//	0.42,0.61
//	{"x":0.42,"y":0.61}
//	none
//
// An empty line, "none", "-", or {} means no hand was found.
type LineTracker struct {
	r      io.Reader
	q      *event.EventQueue
	mirror bool
	log    logrus.FieldLogger
}

// NewLineTracker creates a tracker reading from r
func NewLineTracker(r io.Reader, q *event.EventQueue, mirror bool, log logrus.FieldLogger) *LineTracker {
	return &LineTracker{
		r:      r,
		q:      q,
		mirror: mirror,
		log:    logger.OrDiscard(log).WithField("component", "tracker"),
	}
}

// Run consumes lines until EOF or cancellation
// The pointer is reported lost when the source ends
func (t *LineTracker) Run(ctx context.Context) error {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(t.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				pushLost(t.q)
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			t.handle(line)
		}
	}
}

func (t *LineTracker) handle(line string) {
	nx, ny, found, err := ParseLine(line)
	if err != nil {
		t.log.WithError(err).Debug("skipping detector line")
		return
	}
	if !found {
		pushLost(t.q)
		return
	}
	pushDetect(t.q, nx, ny, t.mirror)
}

type detection struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// ParseLine decodes one detector line
// found is false when the line reports no hand
func ParseLine(line string) (nx, ny float64, found bool, err error) {
	line = strings.TrimSpace(line)
	switch line {
	case "", "none", "-", "{}", "null":
		return 0, 0, false, nil
	}

	if strings.HasPrefix(line, "{") {
		var d detection
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			return 0, 0, false, fmt.Errorf("%w: %v", ErrBadLine, err)
		}
		if d.X == nil || d.Y == nil {
			return 0, 0, false, nil
		}
		return *d.X, *d.Y, true, nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) != 2 {
		return 0, 0, false, fmt.Errorf("%w: %q", ErrBadLine, line)
	}
	if nx, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrBadLine, err)
	}
	if ny, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrBadLine, err)
	}
	return nx, ny, true, nil
}
