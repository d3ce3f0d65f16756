package core

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/proto"
)

// Registry owns the room map and every room's lifecycle. Rooms are created
// on first join and deleted, together with their history, the instant the
// last session leaves; a room with zero sessions never exists here.
//
// The registry lock guards only the room map. Broadcast and history traffic
// runs under the per-room lock, so unrelated rooms never contend.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*Room
	historyLimit int
	log          *zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(historyLimit int, logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		historyLimit: historyLimit,
		log:          logger,
	}
}

// Join registers the session in its room, creating the room on first join.
// Under the same critical section the new session receives the history
// replay and the whole room, joiner included, gets the arrival notice, so
// replay always precedes any new broadcast for that client.
func (r *Registry) Join(sess *Session) error {
	r.mu.Lock()
	room, exists := r.rooms[sess.RoomID]
	if !exists {
		room = newRoom(sess.RoomID, r.historyLimit)
	}

	room.mu.Lock()
	if !room.add(sess) {
		room.mu.Unlock()
		r.mu.Unlock()
		return &RelayError{
			Code:    ErrCodeDuplicateClient,
			Message: fmt.Sprintf("client %q already active in room %q", sess.ClientID, sess.RoomID),
			Err:     ErrDuplicateClient,
		}
	}
	if !exists {
		r.rooms[sess.RoomID] = room
		r.log.Info().Str("room", sess.RoomID).Msg("room created")
	}
	sess.activate()

	// Replay is the joiner's view of the room before its own arrival.
	_ = sess.push(proto.ChatHistory{Type: proto.TypeChatHistory, Messages: room.history.Snapshot()})
	failed := room.appendAndDeliver(systemEntry(sess.ClientID + " joined"))
	room.mu.Unlock()
	r.mu.Unlock()

	r.log.Info().Str("room", sess.RoomID).Str("client", sess.ClientID).Msg("client joined room")
	r.removeAll(failed)
	return nil
}

// Leave removes the client's current session from the room and closes it.
// The emptied room is deleted in the same operation; otherwise the
// survivors get a departure notice.
func (r *Registry) Leave(roomID, clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	room.mu.Lock()
	sess, ok := room.sessions[clientID]
	room.mu.Unlock()
	if !ok {
		return
	}
	r.leaveLocked(sess)
}

// LeaveSession removes exactly this session. A same-id session from a
// newer room generation is never touched; a session already removed is a
// no-op.
func (r *Registry) LeaveSession(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(sess)
}

// leaveLocked processes departures as a worklist: a departure notice whose
// delivery fails marks that peer as departed too. Removal is by session
// identity, not client id, so a stale removal cannot evict a newer session
// that reused the id. Caller holds r.mu.
func (r *Registry) leaveLocked(sess *Session) {
	room, ok := r.rooms[sess.RoomID]
	if !ok {
		sess.close()
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	queue := []*Session{sess}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		if room.sessions[s.ClientID] != s {
			s.close()
			continue
		}
		delete(room.sessions, s.ClientID)
		s.close()
		r.log.Info().Str("room", s.RoomID).Str("client", s.ClientID).Msg("client left room")

		if room.empty() {
			delete(r.rooms, s.RoomID)
			r.log.Info().Str("room", s.RoomID).Msg("room removed")
			return
		}
		queue = append(queue, room.appendAndDeliver(systemEntry(s.ClientID+" left"))...)
	}
}

// Broadcast delivers a transient frame to every session in the room without
// touching history. Unknown rooms are a no-op.
func (r *Registry) Broadcast(roomID string, v any) {
	room := r.room(roomID)
	if room == nil {
		return
	}
	room.mu.Lock()
	failed := room.deliverAll(v)
	room.mu.Unlock()
	r.removeAll(failed)
}

// AppendAndBroadcast historizes an entry and delivers it to the room. The
// append and the fan-out share one critical section, so per-room history
// order and delivery order always agree.
func (r *Registry) AppendAndBroadcast(roomID string, entry proto.HistoryEntry) {
	room := r.room(roomID)
	if room == nil {
		return
	}
	room.mu.Lock()
	failed := room.appendAndDeliver(entry)
	room.mu.Unlock()
	r.removeAll(failed)
}

// SendTo delivers a frame to exactly one session. An unresolved target is a
// silent drop: the peer may legitimately have disconnected mid-exchange.
func (r *Registry) SendTo(roomID, targetID string, v any) {
	room := r.room(roomID)
	if room == nil {
		r.log.Debug().Str("room", roomID).Str("target", targetID).Msg("targeted delivery to unknown room dropped")
		return
	}
	room.mu.Lock()
	sess, ok := room.sessions[targetID]
	var err error
	if ok {
		err = sess.push(v)
	}
	room.mu.Unlock()

	if !ok {
		r.log.Debug().Str("room", roomID).Str("target", targetID).Msg("targeted delivery to absent client dropped")
		return
	}
	if err != nil {
		r.log.Warn().Err(err).Str("room", roomID).Str("target", targetID).Msg("targeted delivery failed, removing session")
		r.LeaveSession(sess)
	}
}

// Lookup resolves a session by room and client id. Absence is not an error.
func (r *Registry) Lookup(roomID, clientID string) (*Session, bool) {
	room := r.room(roomID)
	if room == nil {
		return nil, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	sess, ok := room.sessions[clientID]
	return sess, ok
}

// ListSessions returns the client ids present in the room, sorted for
// stable output. Unknown rooms yield an empty slice, never an error.
func (r *Registry) ListSessions(roomID string) []string {
	room := r.room(roomID)
	if room == nil {
		return []string{}
	}
	room.mu.Lock()
	ids := make([]string, 0, len(room.sessions))
	for id := range room.sessions {
		ids = append(ids, id)
	}
	room.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// HasRoom reports whether the room currently exists.
func (r *Registry) HasRoom(roomID string) bool {
	return r.room(roomID) != nil
}

func (r *Registry) room(roomID string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}

func (r *Registry) removeAll(failed []*Session) {
	if len(failed) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range failed {
		r.log.Warn().Str("room", s.RoomID).Str("client", s.ClientID).Msg("broadcast delivery failed, removing session")
		r.leaveLocked(s)
	}
}

func systemEntry(text string) proto.HistoryEntry {
	return proto.HistoryEntry{
		Type:      proto.EntrySystemMessage,
		Text:      text,
		Timestamp: time.Now().Unix(),
	}
}
