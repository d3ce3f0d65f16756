package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mustFrame waits for the next frame of type T on the session's outbox,
// skipping frames of other types.
func mustFrame[T any](t *testing.T, ch <-chan any) T {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("outbox closed while waiting for %T", *new(T))
			}
			if f, ok := v.(T); ok {
				return f
			}
		case <-deadline:
			t.Fatalf("expected frame %T not received", *new(T))
		}
	}
}

// ensureNoFrame fails if anything arrives on the outbox within the window.
func ensureNoFrame(t *testing.T, ch <-chan any) {
	t.Helper()

	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected frame: %+v", v)
		}
	case <-time.After(100 * time.Millisecond):
	}
}
