// Package relay is a room relay speaking the same frame format as the
// hand-sphere client. Clients enter a named room, receive a small integer
// identity, subscribe to the room population, and broadcast opaque messages
// to the other members.
package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/logger"
	"github.com/lixenwraith/hand-sphere/protocol"
)

// Config holds relay settings
type Config struct {
	MaxMessageSize int64
	SendQueueSize  int
	// CheckOrigin overrides the upgrader origin check; nil accepts all
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns relay defaults
func DefaultConfig() *Config {
	return &Config{
		MaxMessageSize: constants.MaxMessageSize,
		SendQueueSize:  constants.SendQueueSize,
	}
}

// Server relays frames between room members
type Server struct {
	config   *Config
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room

	connected atomic.Int64
	dropped   atomic.Uint64
}

// NewServer creates a relay with no rooms
func NewServer(cfg *Config, log logrus.FieldLogger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		config: cfg,
		log:    logger.OrDiscard(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		rooms: make(map[string]*room),
	}
}

// ServeHTTP upgrades the request and runs the client pumps
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	session := uuid.New()
	c := &client{
		server:  s,
		conn:    conn,
		send:    make(chan []byte, s.config.SendQueueSize),
		session: session,
		log: s.log.WithFields(logrus.Fields{
			"session":     session.String(),
			"remote_addr": r.RemoteAddr,
		}),
		id: -1,
	}
	s.connected.Add(1)
	c.log.Debug("client connected")

	go c.writePump()
	go c.readPump()
}

// Connected returns the number of open connections
func (s *Server) Connected() int {
	return int(s.connected.Load())
}

// Dropped returns frames discarded because a client queue was full
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// RoomCount returns the population of a room
func (s *Server) RoomCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[name]; ok {
		return r.count()
	}
	return 0
}

// RoomMembers returns the identities present in a room, ascending
func (s *Server) RoomMembers(name string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[name]; ok {
		return r.ids()
	}
	return nil
}

var errNotInRoom = errors.New("not in a room")

// handle processes one request frame from c
func (s *Server) handle(c *client, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		if errors.Is(err, protocol.ErrEmptyPayload) {
			return // keep-alive
		}
		s.sendTo(c, protocol.SelError, err.Error())
		return
	}

	switch msg.Selector {
	case protocol.SelEnterRoom:
		name, err := msg.String(0)
		if err == nil && name == "" {
			err = errors.New("empty room name")
		}
		if err != nil {
			s.sendTo(c, protocol.SelError, err.Error())
			return
		}
		s.enter(c, name)

	case protocol.SelExitRoom:
		s.mu.Lock()
		s.leaveLocked(c)
		s.mu.Unlock()

	case protocol.SelSubscribeClientCount:
		s.subscribe(c, true)

	case protocol.SelUnsubscribeClientCount:
		s.subscribe(c, false)

	case protocol.SelBroadcastMessage:
		if err := s.broadcast(c, msg); err != nil {
			s.sendTo(c, protocol.SelError, err.Error())
		}

	default:
		s.sendTo(c, protocol.SelError, "unknown selector: "+msg.Selector)
	}
}

func (s *Server) enter(c *client, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaveLocked(c)

	r, ok := s.rooms[name]
	if !ok {
		r = newRoom(name)
		s.rooms[name] = r
	}
	c.room = r
	c.id = r.add(c)

	s.sendTo(c, protocol.SelClientID, c.id)
	s.notifyCountLocked(r)

	c.log.WithFields(logrus.Fields{
		"room":      name,
		"client_id": c.id,
		"count":     r.count(),
	}).Info("client entered room")
}

// leaveLocked removes c from its room, if any
func (s *Server) leaveLocked(c *client) {
	r := c.room
	if r == nil {
		return
	}
	r.remove(c.id)
	c.log.WithFields(logrus.Fields{
		"room":      r.name,
		"client_id": c.id,
	}).Info("client left room")

	c.room = nil
	c.id = -1

	if r.count() == 0 {
		delete(s.rooms, r.name)
		return
	}
	s.notifyCountLocked(r)
}

func (s *Server) subscribe(c *client, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.room == nil {
		s.sendTo(c, protocol.SelError, errNotInRoom.Error())
		return
	}
	if !on {
		delete(c.room.subscribers, c.id)
		return
	}
	c.room.subscribers[c.id] = struct{}{}
	s.sendTo(c, protocol.SelClientCount, c.room.count())
}

// broadcast forwards the inner message to room members
// Second argument excludes the sender when true
func (s *Server) broadcast(c *client, msg *protocol.Message) error {
	inner, err := msg.Arg(0)
	if err != nil {
		return err
	}
	if !json.Valid(inner) {
		return protocol.ErrMalformed
	}
	excludeSelf, err := msg.Bool(1, false)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.room == nil {
		return errNotInRoom
	}
	frame := []byte(inner)
	for id, member := range c.room.clients {
		if excludeSelf && id == c.id {
			continue
		}
		member.enqueue(frame)
	}
	return nil
}

func (s *Server) notifyCountLocked(r *room) {
	n := r.count()
	for id := range r.subscribers {
		if member, ok := r.clients[id]; ok {
			s.sendTo(member, protocol.SelClientCount, n)
		}
	}
}

// sendTo queues a relay message for c
func (s *Server) sendTo(c *client, selector string, args ...any) {
	frame, err := protocol.Encode(selector, args...)
	if err != nil {
		c.log.WithError(err).Error("encode failed")
		return
	}
	c.enqueue(frame)
}

// disconnect removes c from its room and stops its writer
func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	s.leaveLocked(c)
	s.mu.Unlock()

	close(c.send)
	s.connected.Add(-1)
	c.log.Debug("client disconnected")
}
