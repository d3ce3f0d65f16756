package core

import "github.com/roomlink/roomlink-server/internal/proto"

// History is a bounded FIFO window of a room's broadcastable past.
// It is owned by its room and guarded by the room's lock; entries are
// never mutated after append.
type History struct {
	entries []proto.HistoryEntry
	limit   int
}

// NewHistory constructs an empty window holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 1
	}
	return &History{
		entries: make([]proto.HistoryEntry, 0, limit),
		limit:   limit,
	}
}

// Append inserts an entry, evicting the oldest one first when the
// window is full.
func (h *History) Append(entry proto.HistoryEntry) {
	if len(h.entries) >= h.limit {
		h.entries = append(h.entries[:0], h.entries[1:]...)
	}
	h.entries = append(h.entries, entry)
}

// Snapshot returns a point-in-time copy of the window in arrival order.
// Appends after the snapshot do not affect the returned slice.
func (h *History) Snapshot() []proto.HistoryEntry {
	out := make([]proto.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len reports the number of entries currently held.
func (h *History) Len() int {
	return len(h.entries)
}
