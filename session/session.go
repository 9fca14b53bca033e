// Package session holds the per-client view of the room: the relay-assigned
// identity, the participant count, and the latest point of every remote peer.
package session

import (
	"github.com/lixenwraith/hand-sphere/point"
)

// Session is the shared registry between the sync client and the loop
// All mutation happens on the loop goroutine when queued events are applied
type Session struct {
	ownID    int
	hasOwnID bool

	participants int
	remote       map[int]point.InteractionPoint

	// Counters for the status line and tests
	EchoesSuppressed uint64
	IdentityConflict uint64
}

// New creates an empty session with no identity
func New() *Session {
	return &Session{
		remote: make(map[int]point.InteractionPoint),
	}
}

// OwnID returns the relay-assigned identity and whether it is set
func (s *Session) OwnID() (int, bool) {
	return s.ownID, s.hasOwnID
}

// Participants returns the last reported room population
func (s *Session) Participants() int {
	return s.participants
}

// Remote returns the remote point registry
// The map is owned by the session; callers must not modify it
func (s *Session) Remote() map[int]point.InteractionPoint {
	return s.remote
}

// RemoteCount returns the number of live remote points
func (s *Session) RemoteCount() int {
	return len(s.remote)
}

// AssignIdentity sets the own identity once per connection
// Returns false when an identity is already set; a differing id is counted
// as a conflict and ignored
func (s *Session) AssignIdentity(id int) bool {
	if s.hasOwnID {
		if id != s.ownID {
			s.IdentityConflict++
		}
		return false
	}
	s.ownID = id
	s.hasOwnID = true
	// A stale entry under our new id would be a self point
	delete(s.remote, id)
	return true
}

// SetParticipants records the room population
func (s *Session) SetParticipants(n int) {
	if n < 0 {
		n = 0
	}
	s.participants = n
}

// ApplyMove upserts the remote point for sender
// Moves carrying our own identity are dropped
func (s *Session) ApplyMove(sender int, nx, ny float64) bool {
	if s.hasOwnID && sender == s.ownID {
		s.EchoesSuppressed++
		return false
	}
	s.remote[sender] = point.InteractionPoint{
		Identity: sender,
		X:        nx,
		Y:        ny,
		Space:    point.SpaceNormalized,
	}
	return true
}

// ApplyEnd removes the remote point for sender
func (s *Session) ApplyEnd(sender int) bool {
	if _, ok := s.remote[sender]; !ok {
		return false
	}
	delete(s.remote, sender)
	return true
}

// Reset forgets identity and remote points for a fresh connection
func (s *Session) Reset() {
	s.ownID = 0
	s.hasOwnID = false
	s.participants = 0
	s.remote = make(map[int]point.InteractionPoint)
}
