package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/hand-sphere/constants"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(UpdateEvent{Type: EventIdentity, Payload: IdentityPayload{ID: 1}})
	q.Push(UpdateEvent{Type: EventRemoteMove, Payload: RemoteMovePayload{Sender: 2, X: 0.5, Y: 0.5}})
	q.Push(UpdateEvent{Type: EventRemoteEnd, Payload: RemoteEndPayload{Sender: 2}})

	if q.Len() != 3 {
		t.Errorf("Expected 3 pending, got %d", q.Len())
	}

	got := q.Consume()
	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(got))
	}
	want := []EventType{EventIdentity, EventRemoteMove, EventRemoteEnd}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], ev.Type)
		}
	}

	if q.Consume() != nil {
		t.Error("Expected empty queue after consume")
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewEventQueue()
	total := constants.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(UpdateEvent{Type: EventParticipants, Payload: ParticipantsPayload{Count: i}})
	}

	got := q.Consume()
	if len(got) != constants.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", constants.EventQueueSize, len(got))
	}
	last := got[len(got)-1].Payload.(ParticipantsPayload).Count
	if last != total-1 {
		t.Errorf("Expected newest event %d last, got %d", total-1, last)
	}
	if q.Dropped() == 0 {
		t.Error("Expected dropped counter to advance")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers = 3
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(UpdateEvent{Type: EventGesture})
			}
		}()
	}
	wg.Wait()

	got := q.Consume()
	if len(got) != producers*perProducer {
		t.Errorf("Expected %d events, got %d", producers*perProducer, len(got))
	}
}

func TestQueueLateWriterKeepsNewerLap(t *testing.T) {
	q := NewEventQueue()
	total := constants.EventQueueSize + 1
	for i := 0; i < total; i++ {
		q.Push(UpdateEvent{Type: EventParticipants, Payload: ParticipantsPayload{Count: i}})
	}

	// A producer that reserved position 0 but published after the wrap
	q.store(0, UpdateEvent{Type: EventQuit})

	got := q.Consume()
	if len(got) != constants.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", constants.EventQueueSize, len(got))
	}
	for _, ev := range got {
		if ev.Type == EventQuit {
			t.Fatal("Stale write replaced a newer event")
		}
	}
	if last := got[len(got)-1].Payload.(ParticipantsPayload).Count; last != total-1 {
		t.Errorf("Expected newest event %d last, got %d", total-1, last)
	}
	if q.Consume() != nil {
		t.Error("Expected empty queue after consume")
	}
}

func TestQueueOverflowWhileConsuming(t *testing.T) {
	q := NewEventQueue()
	const producers = 4
	const perProducer = 5 * constants.EventQueueSize

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(UpdateEvent{Type: EventRemoteMove, Payload: RemoteMovePayload{Sender: p, X: float64(i)}})
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	last := make([]float64, producers)
	for i := range last {
		last[i] = -1
	}
	check := func(evs []UpdateEvent) {
		for _, ev := range evs {
			m := ev.Payload.(RemoteMovePayload)
			if m.X <= last[m.Sender] {
				t.Fatalf("Producer %d: expected increasing sequence, got %v after %v", m.Sender, m.X, last[m.Sender])
			}
			last[m.Sender] = m.X
		}
	}

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			check(q.Consume())
		}
	}
	check(q.Consume())

	if q.Len() != 0 {
		t.Errorf("Expected drained queue, got %d pending", q.Len())
	}
	if q.Consume() != nil {
		t.Error("Expected empty queue after drain")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventRemoteMove.String() != "remote_move" {
		t.Errorf("Unexpected name %q", EventRemoteMove.String())
	}
	if EventType(999).String() != "unknown" {
		t.Error("Expected unknown for out-of-range type")
	}
}
