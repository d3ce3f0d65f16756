package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomlink/roomlink-server/internal/proto"
)

// Transport is the session transport collaborator. Receive suspends until
// an envelope arrives or the connection closes; a failed Send means the
// peer's transport is gone.
type Transport interface {
	Receive(ctx context.Context) (*proto.Envelope, error)
	Send(ctx context.Context, v any) error
	Close() error
}

// Manager orchestrates one reader loop per session: join, history replay,
// validate -> route -> execute for each inbound envelope, and leave on
// disconnect, whatever the cause.
type Manager struct {
	registry *Registry
	buffer   int
	log      *zerolog.Logger
}

// NewManager builds a connection manager over the given registry.
// sessionBuffer bounds each session's outbound queue.
func NewManager(registry *Registry, sessionBuffer int, logger *zerolog.Logger) *Manager {
	return &Manager{
		registry: registry,
		buffer:   sessionBuffer,
		log:      logger,
	}
}

// Registry exposes the room registry for presence queries.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Serve drives the connection until the transport closes or ctx is
// cancelled. The session is registered before the first read and always
// unregistered on the way out; every disconnect cause routes through the
// same leave path.
func (m *Manager) Serve(ctx context.Context, roomID, clientID string, tr Transport) error {
	sess := NewSession(roomID, clientID, m.buffer)
	if err := m.registry.Join(sess); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The registry may evict the session behind our back (slow consumer,
	// removal cascade). Closing the transport unblocks both loops, even a
	// writer stuck mid-send, so the connection is torn down with it.
	go func() {
		select {
		case <-sess.Done():
			_ = tr.Close()
		case <-ctx.Done():
		}
	}()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		m.writeLoop(ctx, tr, sess)
	}()

	err := m.readLoop(ctx, tr, sess)

	m.registry.LeaveSession(sess) // closes the outbox, stopping the writer
	cancel()
	<-writeDone
	return err
}

func (m *Manager) readLoop(ctx context.Context, tr Transport, sess *Session) error {
	for {
		env, err := tr.Receive(ctx)
		if err != nil {
			return err
		}
		sess.Touch()

		if verr := env.Validate(); verr != nil {
			// Malformed envelopes never reach the router.
			m.log.Debug().Err(verr).
				Str("room", sess.RoomID).
				Str("client", sess.ClientID).
				Msg("dropping malformed envelope")
			continue
		}

		m.execute(sess, Route(sess.ClientID, env, time.Now()))
	}
}

func (m *Manager) writeLoop(ctx context.Context, tr Transport, sess *Session) {
	for {
		select {
		case v, ok := <-sess.Outbox():
			if !ok {
				_ = tr.Close() // session evicted, unblock the reader
				return
			}
			if err := tr.Send(ctx, v); err != nil {
				m.log.Warn().Err(err).
					Str("room", sess.RoomID).
					Str("client", sess.ClientID).
					Msg("transport send failed")
				_ = tr.Close() // unblock the reader
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) execute(sess *Session, plan DeliveryPlan) {
	switch plan.Kind {
	case PlanTargeted:
		m.registry.SendTo(sess.RoomID, plan.Target, plan.Frame)
	case PlanBroadcastHistory:
		m.registry.AppendAndBroadcast(sess.RoomID, plan.Entry)
	case PlanBroadcast:
		m.registry.Broadcast(sess.RoomID, plan.Frame)
	case PlanDrop:
		m.log.Debug().
			Str("room", sess.RoomID).
			Str("client", sess.ClientID).
			Str("reason", plan.Reason).
			Msg("envelope dropped")
	}
}
