package core

import (
	"time"

	"github.com/roomlink/roomlink-server/internal/proto"
)

// PlanKind describes what the router decided to do with an envelope.
type PlanKind int

const (
	// PlanDrop discards the envelope; nobody receives it and the
	// connection stays up.
	PlanDrop PlanKind = iota
	// PlanTargeted delivers the raw envelope to exactly one peer.
	PlanTargeted
	// PlanBroadcastHistory appends an entry to the room's history and
	// broadcasts it to every session.
	PlanBroadcastHistory
	// PlanBroadcast delivers a transient frame to every session without
	// touching history.
	PlanBroadcast
)

// DeliveryPlan is the router's decision: who receives the envelope and
// whether it is historized. The connection manager executes it.
type DeliveryPlan struct {
	Kind   PlanKind
	Target string             // PlanTargeted
	Frame  any                // PlanTargeted, PlanBroadcast
	Entry  proto.HistoryEntry // PlanBroadcastHistory
	Reason string             // PlanDrop
}

// uploadURLPrefix is where the HTTP layer mounts uploaded files.
const uploadURLPrefix = "/uploads/"

// Route maps a validated envelope to a delivery plan. Pure: no room state
// is read or written here.
//
// Signaling stays point-to-point because its payload is opaque and concerns
// two specific peers; chat is broadcast and historized so late joiners keep
// continuity; file and control events are broadcast but transient.
func Route(senderID string, env *proto.Envelope, now time.Time) DeliveryPlan {
	switch env.Type {
	case proto.TypeWebRTCOffer, proto.TypeWebRTCAnswer, proto.TypeICECandidate:
		return DeliveryPlan{
			Kind:   PlanTargeted,
			Target: env.TargetID,
			Frame:  env.Raw,
		}
	case proto.TypeChatMessage:
		return DeliveryPlan{
			Kind: PlanBroadcastHistory,
			Entry: proto.HistoryEntry{
				Type:      proto.EntryUserMessage,
				Sender:    senderID,
				Text:      env.Text,
				Timestamp: now.Unix(),
			},
		}
	case proto.TypeFileMeta:
		return DeliveryPlan{
			Kind: PlanBroadcast,
			Frame: proto.IncomingFile{
				Type:     proto.TypeIncomingFile,
				FileName: env.FileName,
				FileSize: env.FileSize,
				Sender:   senderID,
				URL:      uploadURLPrefix + env.FileID,
			},
		}
	case proto.TypeControlMessage:
		return DeliveryPlan{
			Kind: PlanBroadcast,
			Frame: proto.ControlEvent{
				Type:   proto.TypeControlEvent,
				Event:  env.Event,
				Sender: senderID,
				Data:   env.Data,
			},
		}
	default:
		return DeliveryPlan{Kind: PlanDrop, Reason: "unknown envelope type " + env.Type}
	}
}
