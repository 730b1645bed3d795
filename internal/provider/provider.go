// Package provider implements the realtime session layer over a
// websocket connection to the classroom service.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"breakout/pkg/interfaces"
	"breakout/pkg/types"
)

const (
	defaultJoinTimeout = 15 * time.Second
	defaultEventBuffer = 256
)

// Dialer joins rooms by dialing the realtime service, sending a join
// frame, and waiting for the welcome snapshot. It implements
// interfaces.SessionProvider; one Dialer serves both the MAIN and
// BREAKOUT joins.
type Dialer struct {
	url         string
	joinTimeout time.Duration
	eventBuffer int
	log         *slog.Logger
}

// Option configures a Dialer.
type Option func(*Dialer)

// WithJoinTimeout bounds the dial-to-welcome handshake.
func WithJoinTimeout(d time.Duration) Option {
	return func(p *Dialer) { p.joinTimeout = d }
}

// WithEventBuffer sets the per-session event channel capacity.
func WithEventBuffer(n int) Option {
	return func(p *Dialer) { p.eventBuffer = n }
}

// NewDialer creates a Dialer for the service at url.
func NewDialer(url string, log *slog.Logger, opts ...Option) *Dialer {
	d := &Dialer{
		url:         url,
		joinTimeout: defaultJoinTimeout,
		eventBuffer: defaultEventBuffer,
		log:         log.With("component", "provider"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Join dials, sends the join frame, and blocks until the service
// answers with a welcome snapshot or rejects the join.
func (d *Dialer) Join(ctx context.Context, room types.RoomInfo, identity types.Identity,
	opts types.JoinOptions) (interfaces.Session, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, d.joinTimeout)
	defer cancel()

	ws, _, err := websocket.DefaultDialer.DialContext(dialCtx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing realtime service: %w", err)
	}
	conn := newConnection(ws)

	join := frame{Type: frameJoin, Join: &joinPayload{Room: room, Identity: identity, Options: opts}}
	if err := conn.writeJSON(join); err != nil {
		conn.close()
		return nil, fmt.Errorf("sending join: %w", err)
	}

	if err := conn.setReadDeadline(time.Now().Add(d.joinTimeout)); err != nil {
		conn.close()
		return nil, fmt.Errorf("arming join deadline: %w", err)
	}
	welcome, err := awaitWelcome(conn)
	if err != nil {
		conn.close()
		return nil, err
	}
	// Room kind is a client-side notion; the service never sets it.
	welcome.Room.Kind = room.Kind
	// Joined; reads block indefinitely from here.
	if err := conn.setReadDeadline(time.Time{}); err != nil {
		conn.close()
		return nil, fmt.Errorf("clearing join deadline: %w", err)
	}

	d.log.Info("session joined", "roomUuid", welcome.Room.UUID,
		"kind", welcome.Room.Kind.String(), "isMain", opts.IsMain)
	return newSession(conn, welcome, d.eventBuffer, d.log), nil
}

func awaitWelcome(conn *connection) (*welcomePayload, error) {
	f, err := conn.readFrame()
	if err != nil {
		return nil, fmt.Errorf("awaiting welcome: %w", err)
	}
	switch f.Type {
	case frameWelcome:
		if f.Welcome == nil {
			return nil, ErrUnexpectedFrame
		}
		return f.Welcome, nil
	case frameError:
		if f.Error == nil {
			return nil, ErrUnexpectedFrame
		}
		return nil, &ServiceError{Code: f.Error.Code, Msg: f.Error.Msg}
	default:
		return nil, ErrUnexpectedFrame
	}
}
