package proto

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEnvelopeValidate(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"offer with target", `{"type":"webrtc_offer","target_id":"b","sdp":"v=0"}`, true},
		{"answer without target", `{"type":"webrtc_answer","sdp":"v=0"}`, false},
		{"ice without target", `{"type":"ice_candidate"}`, false},
		{"chat", `{"type":"chat_message","text":"hi"}`, true},
		{"chat without text", `{"type":"chat_message"}`, false},
		{"file meta", `{"type":"file_meta","file_id":"x_a.txt","file_name":"a.txt","file_size":10}`, true},
		{"file meta zero size", `{"type":"file_meta","file_id":"x","file_name":"a.txt","file_size":0}`, false},
		{"file meta without id", `{"type":"file_meta","file_name":"a.txt","file_size":10}`, false},
		{"control", `{"type":"control_message","event":"record"}`, true},
		{"control without event", `{"type":"control_message"}`, false},
		{"unknown type", `{"type":"teleport"}`, false},
		{"missing type", `{"text":"hi"}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tc.raw), &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			err := env.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, ErrInvalidEnvelope) {
					t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
				}
			}
		})
	}
}

func TestEnvelopePreservesRawBytes(t *testing.T) {
	raw := `{"type":"ice_candidate","target_id":"bob","candidate":"c0","sdpMid":"0"}`

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Fields the schema does not know about survive for the raw relay.
	if string(env.Raw) != raw {
		t.Fatalf("raw bytes not preserved:\nwant %s\ngot  %s", raw, env.Raw)
	}
	if env.TargetID != "bob" {
		t.Fatalf("known field not decoded: %+v", env)
	}
}
