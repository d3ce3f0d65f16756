package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeValidation      = "validation_error"
	ErrCodeDuplicateClient = "duplicate_client"
	ErrCodeDelivery        = "delivery_failure"
	ErrCodeCapacity        = "capacity_exceeded"
)

var (
	// ErrDuplicateClient rejects a join when the client identifier is
	// already active in the room. The transport decides whether to close
	// or retry with a new identity.
	ErrDuplicateClient = errors.New("client id already in room")

	// ErrSessionClosed is returned by a push to a session that has
	// reached its terminal state.
	ErrSessionClosed = errors.New("session closed")

	// ErrSlowConsumer is returned when a session's outbound queue is
	// full. Treated as a delivery failure: the session is removed.
	ErrSlowConsumer = errors.New("session outbound queue full")
)

// RelayError wraps a stable code and human-readable message around an
// underlying sentinel, so callers can match with errors.Is and transports
// can surface the code.
type RelayError struct {
	Code    string
	Message string
	Err     error
}

func (e *RelayError) Error() string {
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}
