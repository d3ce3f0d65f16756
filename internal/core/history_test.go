package core

import (
	"strconv"
	"testing"

	"github.com/roomlink/roomlink-server/internal/proto"
)

func userEntry(text string) proto.HistoryEntry {
	return proto.HistoryEntry{Type: proto.EntryUserMessage, Sender: "u", Text: text}
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewHistory(3)

	for i := 0; i < 4; i++ {
		h.Append(userEntry(strconv.Itoa(i)))
	}

	got := h.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got[i].Text != want {
			t.Fatalf("entry %d: expected %q, got %q", i, want, got[i].Text)
		}
	}
}

func TestHistoryNeverExceedsLimit(t *testing.T) {
	h := NewHistory(100)

	for i := 0; i < 250; i++ {
		h.Append(userEntry(strconv.Itoa(i)))
		if h.Len() > 100 {
			t.Fatalf("history grew to %d entries after %d appends", h.Len(), i+1)
		}
	}

	got := h.Snapshot()
	if got[0].Text != "150" || got[99].Text != "249" {
		t.Fatalf("unexpected window: first=%q last=%q", got[0].Text, got[99].Text)
	}
}

func TestHistorySnapshotIsIsolatedFromAppends(t *testing.T) {
	h := NewHistory(10)
	h.Append(userEntry("a"))
	h.Append(userEntry("b"))

	snap := h.Snapshot()
	h.Append(userEntry("c"))

	if len(snap) != 2 {
		t.Fatalf("snapshot length changed to %d", len(snap))
	}
	if snap[0].Text != "a" || snap[1].Text != "b" {
		t.Fatalf("snapshot mutated: %+v", snap)
	}
}
