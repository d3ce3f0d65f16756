package core

import (
	"sync"

	"github.com/roomlink/roomlink-server/internal/proto"
)

// Room groups the sessions subscribed to one room key together with the
// room's history window. A room exists only while it has sessions; the
// registry deletes it the moment the last one leaves.
//
// mu guards sessions and history. All mutations within one room are
// mutually exclusive; independent rooms never contend.
type Room struct {
	ID string

	mu       sync.Mutex
	sessions map[string]*Session
	history  *History
}

func newRoom(id string, historyLimit int) *Room {
	return &Room{
		ID:       id,
		sessions: make(map[string]*Session),
		history:  NewHistory(historyLimit),
	}
}

// add inserts a session keyed by client id. Returns false on collision.
// Caller holds r.mu.
func (r *Room) add(s *Session) bool {
	if _, exists := r.sessions[s.ClientID]; exists {
		return false
	}
	r.sessions[s.ClientID] = s
	return true
}

// deliverAll pushes a frame to every session in the room and returns the
// sessions whose delivery failed. One bad peer never aborts the rest.
// Caller holds r.mu.
func (r *Room) deliverAll(v any) []*Session {
	var failed []*Session
	for _, sess := range r.sessions {
		if err := sess.push(v); err != nil {
			failed = append(failed, sess)
		}
	}
	return failed
}

// appendAndDeliver historizes an entry and broadcasts it wrapped as a
// new_message frame, in one critical section so the history order and
// the broadcast order always agree. Caller holds r.mu.
func (r *Room) appendAndDeliver(entry proto.HistoryEntry) []*Session {
	r.history.Append(entry)
	return r.deliverAll(proto.NewMessage{Type: proto.TypeNewMessage, Message: entry})
}

// empty reports whether the room has no sessions left. Caller holds r.mu.
func (r *Room) empty() bool {
	return len(r.sessions) == 0
}
