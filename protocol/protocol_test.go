package protocol

import (
	"errors"
	"testing"
)

func TestOutboundFrames(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]byte, error)
		want string
	}{
		{"enter", func() ([]byte, error) { return EnterRoom("hand-sphere-room") }, `["*enter-room*","hand-sphere-room"]`},
		{"subscribe", SubscribeClientCount, `["*subscribe-client-count*"]`},
		{"exit", ExitRoom, `["*exit-room*"]`},
		{"move", func() ([]byte, error) { return BroadcastMove(3, 0.25, 0.5) }, `["*broadcast-message*",["move",3,0.25,0.5]]`},
		{"end", func() ([]byte, error) { return BroadcastEnd(3) }, `["*broadcast-message*",["end",3]]`},
	}
	for _, tt := range tests {
		got, err := tt.fn()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func TestEnterRoomRequiresName(t *testing.T) {
	if _, err := EnterRoom(""); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestParseInbound(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`["*client-id*",3]`, ClientID{ID: 3}},
		{`["*client-count*",5]`, ClientCount{Count: 5}},
		{`["move",2,0.1,0.9]`, Move{Sender: 2, X: 0.1, Y: 0.9}},
		{`["move",2.0,1,0]`, Move{Sender: 2, X: 1, Y: 0}},
		{`["end",2]`, End{Sender: 2}},
		{`["*error*","no room"]`, RelayError{Text: "no room"}},
		{`["*client-enter*",4]`, Unknown{Selector: "*client-enter*"}},
	}
	for _, tt := range tests {
		got, err := ParseInbound([]byte(tt.in))
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %#v, got %#v", tt.in, tt.want, got)
		}
	}
}

func TestParseInboundRejectsMalformed(t *testing.T) {
	bad := []string{
		`not json`,
		`{}`,
		`[]`,
		`[42]`,
		`["move",2,"x",0.5]`,
		`["move",2,0.5]`,
		`["move",2.5,0.5,0.5]`,
		`["*client-id*"]`,
		`["end",null]`,
	}
	for _, in := range bad {
		if _, err := ParseInbound([]byte(in)); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}
}

func TestEmptyPayload(t *testing.T) {
	if _, err := ParseInbound(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
	if _, err := ParseInbound(KeepAlive); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Expected ErrEmptyPayload for keep-alive, got %v", err)
	}
}

func TestBroadcastUnwrapsToMove(t *testing.T) {
	frame, err := BroadcastMove(8, 0.3, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Decode(frame)
	if err != nil {
		t.Fatal(err)
	}
	inner, err := m.Arg(0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseInbound(inner)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Move{Sender: 8, X: 0.3, Y: 0.7}) {
		t.Errorf("Expected move round trip, got %#v", got)
	}
}

func TestBoolDefault(t *testing.T) {
	m, _ := Decode([]byte(`["*broadcast-message*",["move",1,0,0]]`))
	if b, err := m.Bool(1, false); err != nil || b {
		t.Errorf("Expected default false, got %v %v", b, err)
	}
	m, _ = Decode([]byte(`["*broadcast-message*",["move",1,0,0],true]`))
	if b, err := m.Bool(1, false); err != nil || !b {
		t.Errorf("Expected true, got %v %v", b, err)
	}
}
