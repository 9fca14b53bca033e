package relay

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/lixenwraith/hand-sphere/protocol"
)

func startRelay(t *testing.T) (*Server, string) {
	t.Helper()
	srv := NewServer(nil, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func write(t *testing.T, ws *websocket.Conn, frame string) {
	t.Helper()
	if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

func read(t *testing.T, ws *websocket.Conn) *protocol.Message {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	msg, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("Decode %q failed: %v", data, err)
	}
	return msg
}

func expectInt(t *testing.T, msg *protocol.Message, selector string, want int) {
	t.Helper()
	if msg.Selector != selector {
		t.Fatalf("Expected selector %s, got %s", selector, msg.Selector)
	}
	got, err := msg.Int(0)
	if err != nil {
		t.Fatalf("Expected integer argument: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s %d, got %d", selector, want, got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

func enter(t *testing.T, url string, wantID int) *websocket.Conn {
	t.Helper()
	ws := dial(t, url)
	write(t, ws, `["*enter-room*","r"]`)
	expectInt(t, read(t, ws), protocol.SelClientID, wantID)
	return ws
}

func TestEnterAssignsSmallestFreeID(t *testing.T) {
	srv, url := startRelay(t)

	a := enter(t, url, 0)
	enter(t, url, 1)

	a.Close()
	waitFor(t, func() bool {
		m := srv.RoomMembers("r")
		return len(m) == 1 && m[0] == 1
	})

	enter(t, url, 0)
	if n := srv.RoomCount("r"); n != 2 {
		t.Errorf("Expected 2 members, got %d", n)
	}
}

func TestClientCountSubscription(t *testing.T) {
	_, url := startRelay(t)

	a := enter(t, url, 0)
	write(t, a, `["*subscribe-client-count*"]`)
	expectInt(t, read(t, a), protocol.SelClientCount, 1)

	b := enter(t, url, 1)
	expectInt(t, read(t, a), protocol.SelClientCount, 2)

	b.Close()
	expectInt(t, read(t, a), protocol.SelClientCount, 1)
}

func TestBroadcastIncludesSender(t *testing.T) {
	_, url := startRelay(t)

	a := enter(t, url, 0)
	b := enter(t, url, 1)

	write(t, a, `["*broadcast-message*",["move",0,0.25,0.75]]`)

	for _, ws := range []*websocket.Conn{a, b} {
		msg, err := protocol.ParseInbound(mustRead(t, ws))
		if err != nil {
			t.Fatalf("ParseInbound failed: %v", err)
		}
		move, ok := msg.(protocol.Move)
		if !ok {
			t.Fatalf("Expected Move, got %T", msg)
		}
		if move.Sender != 0 || move.X != 0.25 || move.Y != 0.75 {
			t.Errorf("Unexpected move %+v", move)
		}
	}
}

func TestBroadcastExcludeSelf(t *testing.T) {
	_, url := startRelay(t)

	a := enter(t, url, 0)
	b := enter(t, url, 1)

	write(t, a, `["*broadcast-message*",["end",0],true]`)
	msg := read(t, b)
	if msg.Selector != protocol.SelEnd {
		t.Fatalf("Expected end, got %s", msg.Selector)
	}

	// Sender sees only what follows, not its own broadcast
	write(t, b, `["*broadcast-message*",["end",1],true]`)
	expectInt(t, read(t, a), protocol.SelEnd, 1)
}

func TestErrorsAndKeepAlive(t *testing.T) {
	_, url := startRelay(t)
	ws := dial(t, url)

	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `hello`},
		{"unknown selector", `["*dance*"]`},
		{"broadcast outside room", `["*broadcast-message*",["end",0]]`},
		{"subscribe outside room", `["*subscribe-client-count*"]`},
		{"empty room", `["*enter-room*",""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			write(t, ws, tt.frame)
			if msg := read(t, ws); msg.Selector != protocol.SelError {
				t.Errorf("Expected %s, got %s", protocol.SelError, msg.Selector)
			}
		})
	}

	// Empty keep-alive yields no reply; the next response belongs to enter
	write(t, ws, "")
	write(t, ws, `["*enter-room*","r"]`)
	expectInt(t, read(t, ws), protocol.SelClientID, 0)
}

func TestExitRoom(t *testing.T) {
	srv, url := startRelay(t)

	a := enter(t, url, 0)
	write(t, a, `["*exit-room*"]`)
	waitFor(t, func() bool { return srv.RoomCount("r") == 0 })

	write(t, a, `["*broadcast-message*",["end",0]]`)
	if msg := read(t, a); msg.Selector != protocol.SelError {
		t.Errorf("Expected error after exit, got %s", msg.Selector)
	}
}

func mustRead(t *testing.T, ws *websocket.Conn) []byte {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return data
}

func TestConnectLogFields(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ts := httptest.NewServer(NewServer(nil, log))
	t.Cleanup(ts.Close)

	dial(t, "ws"+strings.TrimPrefix(ts.URL, "http"))

	var entry *logrus.Entry
	waitFor(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "client connected" {
				entry = e
				return true
			}
		}
		return false
	})

	if addr, ok := entry.Data["remote_addr"].(string); !ok || addr == "" {
		t.Errorf("Expected remote_addr field, got %v", entry.Data)
	}
	if _, ok := entry.Data["session"]; !ok {
		t.Errorf("Expected session field, got %v", entry.Data)
	}
}
