package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/roomlink/roomlink-server/internal/proto"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	reg := NewRegistry(100, testLogger())

	target := NewSession("bench", "target", 1024)
	if err := reg.Join(target); err != nil {
		b.Fatalf("join target: %v", err)
	}

	for i := 0; i < recipients; i++ {
		s := NewSession("bench", fmt.Sprintf("c%d", i), 1024)
		if err := reg.Join(s); err != nil {
			b.Fatalf("join c%d: %v", i, err)
		}
		// Drain to avoid queue overflow evicting the session mid-run.
		go func(s *Session) {
			for range s.Outbox() {
			}
		}(s)
	}

	// Drain the join frames before timing.
	for len(target.Outbox()) > 0 {
		<-target.Outbox()
	}

	entry := proto.HistoryEntry{
		Type:      proto.EntryUserMessage,
		Sender:    "target",
		Text:      "payload",
		Timestamp: time.Now().Unix(),
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		reg.AppendAndBroadcast("bench", entry)
		<-target.Outbox()
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
