package event

import (
	"sync/atomic"

	"github.com/lixenwraith/hand-sphere/constants"
)

// EventQueue is a lock-free MPSC ring buffer for update events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (network, tracker, terminal)
//   - Consume: Single consumer (loop)
//   - Each slot holds an immutable record tagged with its ring position, so
//     a reader never sees a partial write and never mistakes a stale lap
//
// Overflow: Oldest events overwritten when full
type EventQueue struct {
	slots   [constants.EventQueueSize]atomic.Pointer[slot]
	head    atomic.Uint64 // Read index
	tail    atomic.Uint64 // Write index
	dropped atomic.Uint64
}

// slot is one published event and the ring position it was written for
type slot struct {
	pos uint64
	ev  UpdateEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds event using lock-free CAS on the tail
// Safe for concurrent producers. O(1) amortized
func (eq *EventQueue) Push(ev UpdateEvent) {
	for {
		currentTail := eq.tail.Load()
		nextTail := currentTail + 1

		if eq.tail.CompareAndSwap(currentTail, nextTail) {
			eq.store(currentTail, ev)

			// Advance head if overwriting unread events
			currentHead := eq.head.Load()
			if nextTail-currentHead > constants.EventQueueSize {
				if eq.head.CompareAndSwap(currentHead, nextTail-constants.EventQueueSize) {
					eq.dropped.Add(1)
				}
			}
			return
		}
	}
}

// store publishes ev for ring position pos
// A slow producer never replaces a record from a later lap
func (eq *EventQueue) store(pos uint64, ev UpdateEvent) {
	s := &slot{pos: pos, ev: ev}
	cell := &eq.slots[pos&constants.EventBufferMask]
	for {
		old := cell.Load()
		if old != nil && old.pos > pos {
			eq.dropped.Add(1)
			return
		}
		if cell.CompareAndSwap(old, s) {
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design (loop). Stops at the first slot still being written
func (eq *EventQueue) Consume() []UpdateEvent {
	for {
		loadedHead := eq.head.Load()
		currentHead := loadedHead
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > constants.EventQueueSize {
			maxAvailable = constants.EventQueueSize
			currentHead = currentTail - constants.EventQueueSize
		}

		result := make([]UpdateEvent, 0, maxAvailable)
		var read uint64
		for ; read < maxAvailable; read++ {
			pos := currentHead + read
			s := eq.slots[pos&constants.EventBufferMask].Load()

			if s == nil || s.pos < pos {
				break // Writer incomplete
			}
			if s.pos > pos {
				continue // Overwritten by a later lap
			}
			result = append(result, s.ev)
		}

		if eq.head.CompareAndSwap(loadedHead, currentHead+read) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending event count
func (eq *EventQueue) Len() int {
	head := eq.head.Load()
	tail := eq.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > constants.EventQueueSize {
		return constants.EventQueueSize
	}
	return diff
}

// Dropped returns the number of events overwritten before consumption
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}
