package proto

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope kinds accepted from clients.
const (
	TypeWebRTCOffer    = "webrtc_offer"
	TypeWebRTCAnswer   = "webrtc_answer"
	TypeICECandidate   = "ice_candidate"
	TypeChatMessage    = "chat_message"
	TypeFileMeta       = "file_meta"
	TypeControlMessage = "control_message"
)

// Frame kinds originated by the server.
const (
	TypeChatHistory  = "chat_history"
	TypeNewMessage   = "new_message"
	TypeIncomingFile = "incoming_file"
	TypeControlEvent = "control_event"
)

// History entry kinds. Only these two are ever persisted in a room's ring.
const (
	EntrySystemMessage = "system_message"
	EntryUserMessage   = "user_message"
)

// ErrInvalidEnvelope marks envelopes that fail schema validation.
// Such envelopes are dropped without tearing down the connection.
var ErrInvalidEnvelope = errors.New("invalid envelope")

// Envelope is one inbound message from a client. Signaling payloads are
// opaque to the relay, so the original bytes are retained in Raw and
// re-delivered unmodified to the target peer.
type Envelope struct {
	Type     string          `json:"type"`
	TargetID string          `json:"target_id,omitempty"`
	Text     string          `json:"text,omitempty"`
	FileID   string          `json:"file_id,omitempty"`
	FileName string          `json:"file_name,omitempty"`
	FileSize int64           `json:"file_size,omitempty"`
	Event    string          `json:"event,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`

	// Raw holds the envelope exactly as received.
	Raw json.RawMessage `json:"-"`
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	type alias Envelope
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*e = Envelope(a)
	e.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Validate checks that the envelope carries the fields its kind requires.
// The sender identity is never part of the payload; it is attached by the
// connection manager from the connection's own identity.
func (e *Envelope) Validate() error {
	switch e.Type {
	case TypeWebRTCOffer, TypeWebRTCAnswer, TypeICECandidate:
		if e.TargetID == "" {
			return fmt.Errorf("%w: %s requires target_id", ErrInvalidEnvelope, e.Type)
		}
	case TypeChatMessage:
		if e.Text == "" {
			return fmt.Errorf("%w: chat_message requires text", ErrInvalidEnvelope)
		}
	case TypeFileMeta:
		if e.FileID == "" || e.FileName == "" || e.FileSize <= 0 {
			return fmt.Errorf("%w: file_meta requires file_id, file_name and a positive file_size", ErrInvalidEnvelope)
		}
	case TypeControlMessage:
		if e.Event == "" {
			return fmt.Errorf("%w: control_message requires event", ErrInvalidEnvelope)
		}
	case "":
		return fmt.Errorf("%w: missing type", ErrInvalidEnvelope)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEnvelope, e.Type)
	}
	return nil
}

// HistoryEntry is one element of a room's replay window.
type HistoryEntry struct {
	Type      string `json:"type"`
	Sender    string `json:"sender,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// ChatHistory is pushed once to a client right after it joins a room,
// before any new broadcast reaches it.
type ChatHistory struct {
	Type     string         `json:"type"`
	Messages []HistoryEntry `json:"messages"`
}

// NewMessage wraps every historized entry broadcast to a room.
type NewMessage struct {
	Type    string       `json:"type"`
	Message HistoryEntry `json:"message"`
}

// IncomingFile announces uploaded-file metadata to a room. The relay derives
// URL from the file identifier; the contents are never inspected.
type IncomingFile struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Sender   string `json:"sender"`
	URL      string `json:"url"`
}

// ControlEvent relays a control message (recording, screen share, ...) with
// the sender identity attached. Event and Data pass through untouched.
type ControlEvent struct {
	Type   string          `json:"type"`
	Event  string          `json:"event"`
	Sender string          `json:"sender"`
	Data   json.RawMessage `json:"data,omitempty"`
}
