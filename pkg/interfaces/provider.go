package interfaces

import (
	"context"

	"breakout/pkg/types"
)

// Session is one joined room connection delivered by the external
// session provider. Accessors return the latest snapshot the provider
// has applied; the Events channel delivers notifications in arrival
// order and is closed when the session ends.
type Session interface {
	// Info returns the room descriptor this session joined.
	Info() types.RoomInfo

	// Status returns the latest room-level status.
	Status() types.RoomStatus

	// LocalUser returns the local user as admitted to this room,
	// including the session token issued at join time.
	LocalUser() types.UserInfo

	// Roster returns the current set of users in the room.
	Roster() []types.UserInfo

	// Streams returns the current set of published streams in the
	// room, in provider order.
	Streams() []types.StreamInfo

	// Property returns a shared room property by key.
	Property(key string) (string, bool)

	// Events is the session's notification stream.
	Events() <-chan types.Event

	// SendChat publishes a chat envelope to the room. Errors are
	// surfaced per call and never retried internally.
	SendChat(ctx context.Context, envelope types.ChatEnvelope) error

	// Leave disconnects from the room. Safe to call more than once.
	Leave() error
}

// SessionProvider joins room sessions. Implementations perform the
// network round-trip and return a live Session on success.
type SessionProvider interface {
	Join(ctx context.Context, room types.RoomInfo, identity types.Identity, opts types.JoinOptions) (Session, error)
}
