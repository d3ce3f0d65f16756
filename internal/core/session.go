package core

import (
	"sync"
	"time"
)

// SessionState tracks a session through its lifecycle. Closed is terminal;
// reusing a closed session is a programming error, not a recoverable one.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateActive
	StateClosed
)

// Session is one connected client within one room. It is owned by its room
// for the duration of the connection; the same client identifier in a
// different room is a distinct session.
type Session struct {
	ClientID string
	RoomID   string

	mu         sync.Mutex
	state      SessionState
	lastActive time.Time
	outbox     chan any
	done       chan struct{}
}

// NewSession constructs a session in the Connecting state with a bounded
// outbound queue. The queue is drained by the connection's writer; pushes
// never block room-level operations.
func NewSession(roomID, clientID string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 1
	}
	return &Session{
		ClientID:   clientID,
		RoomID:     roomID,
		state:      StateConnecting,
		lastActive: time.Now(),
		outbox:     make(chan any, buffer),
		done:       make(chan struct{}),
	}
}

// Outbox exposes the queue of frames awaiting delivery to this client.
// The channel is closed when the session closes.
func (s *Session) Outbox() <-chan any {
	return s.outbox
}

// Done is closed when the session reaches its terminal state, however it
// got there. Unlike Outbox, it fires without the queue being drained.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastActive returns the time of the most recent inbound envelope.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Touch records client activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// push enqueues a frame without blocking. A closed session or a full
// queue is a delivery failure surfaced to the caller; the room removes
// the session in response.
func (s *Session) push(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return ErrSessionClosed
	}
	select {
	case s.outbox <- v:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// activate transitions Connecting -> Active on a successful join.
func (s *Session) activate() {
	s.mu.Lock()
	if s.state == StateConnecting {
		s.state = StateActive
	}
	s.mu.Unlock()
}

// close transitions to Closed and shuts the outbox so the connection's
// writer drains and exits. Safe against concurrent pushes.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	close(s.outbox)
	close(s.done)
}
