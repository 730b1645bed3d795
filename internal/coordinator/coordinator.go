// Package coordinator owns the lifecycle of the MAIN and BREAKOUT
// sessions. It is the only component permitted to create or destroy
// the breakout session.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"breakout/internal/mirror"
	"breakout/internal/router"
	"breakout/pkg/interfaces"
	"breakout/pkg/types"
)

// CredentialSetter receives the breakout session token for outbound
// network calls once the sub-session is joined.
type CredentialSetter interface {
	SetToken(token string)
}

// Attacher starts forwarding a joined session's events. The hub
// implements it.
type Attacher interface {
	Attach(origin types.RoomKind, generation uint64, s interfaces.Session)
}

// Coordinator sequences join main → allocate → join sub, tears both
// sessions down on Leave, and validates late completions against a
// generation counter so a Leave racing an in-flight join can never
// resurrect a dead session.
type Coordinator struct {
	provider   interfaces.SessionProvider
	allocator  interfaces.Allocator
	credential CredentialSetter
	mirror     *mirror.Mirror
	limiter    *router.RateLimiter
	log        *slog.Logger

	mainRoom types.RoomInfo
	events   Attacher
	onReady  func()

	mu      sync.Mutex
	main    interfaces.Session
	sub     interfaces.Session
	joining bool
	gen     uint64
}

// New creates a coordinator for one classroom entry. chatRateLimit is
// the per-user outbound sends allowed per minute.
func New(provider interfaces.SessionProvider, allocator interfaces.Allocator, credential CredentialSetter,
	m *mirror.Mirror, mainRoom types.RoomInfo, chatRateLimit int, log *slog.Logger) *Coordinator {
	return &Coordinator{
		provider:   provider,
		allocator:  allocator,
		credential: credential,
		mirror:     m,
		limiter:    router.NewRateLimiter(chatRateLimit),
		mainRoom:   mainRoom,
		log:        log.With("component", "coordinator"),
	}
}

// BindEvents attaches the event hub. Must be called before Join.
func (c *Coordinator) BindEvents(a Attacher) { c.events = a }

// OnReady registers a callback invoked once the breakout session is
// joined and the merged view is live.
func (c *Coordinator) OnReady(f func()) { c.onReady = f }

// Join runs the full join sequence. Identity establishment on MAIN
// completes before any sub-session action is attempted.
//
// Allocation failure leaves nothing joined (full rollback and a single
// aggregated AllocationFailed). A failed breakout join, by contrast,
// leaves MAIN joined — the user stays in the lobby. The asymmetry is
// inherited behavior, kept deliberately.
func (c *Coordinator) Join(ctx context.Context, identity types.Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.main != nil || c.joining {
		c.mu.Unlock()
		return ErrAlreadyJoined
	}
	c.joining = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.joining = false
		c.mu.Unlock()
	}()

	main, err := c.provider.Join(ctx, c.mainRoom, identity, types.JoinOptions{
		IsMain:            true,
		PublishLocalMedia: true,
		SubscribeEvents:   true,
	})
	if err != nil {
		return newFailure(ErrMainJoinFailed, err)
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.main = main
	c.mu.Unlock()
	c.attach(types.RoomMain, gen, main)
	c.log.Info("main session joined", "roomUuid", c.mainRoom.UUID)

	subRoom, err := c.allocator.Allocate(ctx, c.mainRoom.UUID, identity.UserUUID)
	if err != nil {
		// Full rollback: nothing stays joined after an allocation
		// failure.
		c.mu.Lock()
		m := c.main
		c.main = nil
		c.gen++
		c.mu.Unlock()
		if m != nil {
			if lerr := m.Leave(); lerr != nil {
				c.log.Warn("main session leave during rollback failed", "error", lerr)
			}
		}
		c.log.Error("breakout allocation failed", "error", err)
		return newFailure(ErrAllocationFailed, err)
	}
	subRoom.Kind = types.RoomBreakout

	if !c.stillJoining(gen) {
		return ErrJoinCanceled
	}

	sub, err := c.provider.Join(ctx, subRoom, identity, types.JoinOptions{
		IsMain:            false,
		PublishLocalMedia: false, // already publishing from MAIN
		SubscribeEvents:   true,
	})
	if err != nil {
		// MAIN stays joined.
		c.log.Error("breakout join failed", "roomUuid", subRoom.UUID, "error", err)
		return newFailure(ErrSubJoinFailed, err)
	}

	c.mu.Lock()
	if c.main == nil || c.gen != gen {
		c.mu.Unlock()
		// Leave won the race; the fresh session must not survive it.
		if lerr := sub.Leave(); lerr != nil {
			c.log.Warn("orphaned breakout leave failed", "error", lerr)
		}
		return ErrJoinCanceled
	}
	c.sub = sub
	c.mu.Unlock()

	// Board write-once is scoped to this sub-session's lifetime.
	c.mirror.Reset()

	// Downstream calls authenticate with the freshly issued breakout
	// token from here on.
	if token := sub.LocalUser().SessionToken; token != "" && c.credential != nil {
		c.credential.SetToken(token)
	}

	c.attach(types.RoomBreakout, gen, sub)
	c.log.Info("breakout session joined", "roomUuid", subRoom.UUID, "roomName", subRoom.Name)

	if c.onReady != nil {
		c.onReady()
	}
	return nil
}

// Leave tears down BREAKOUT (if present) then MAIN and clears both
// references, so no further event is routed to either. Idempotent and
// safe from any teardown path.
func (c *Coordinator) Leave() error {
	c.mu.Lock()
	sub, main := c.sub, c.main
	c.sub, c.main = nil, nil
	c.gen++
	c.mu.Unlock()

	var errs []error
	if sub != nil {
		if err := sub.Leave(); err != nil {
			errs = append(errs, err)
		}
	}
	if main != nil {
		if err := main.Leave(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendChat publishes a local chat message. Breakout members send
// twice: once to MAIN wrapped with the breakout room identity (so the
// teacher sees which group it came from) and once to the breakout room
// itself. Errors are surfaced per call and never retried.
func (c *Coordinator) SendChat(ctx context.Context, body string) error {
	c.mu.Lock()
	main, sub := c.main, c.sub
	c.mu.Unlock()

	if main == nil {
		return ErrNotJoined
	}
	local := main.LocalUser()
	if !c.limiter.Allow(local.UUID) {
		return ErrChatRateLimited
	}

	role := local.Role
	if role != types.RoleTeacher {
		role = types.RoleStudent
	}
	envelope := types.ChatEnvelope{
		Sender:     local,
		SenderRole: role,
		Body:       body,
	}
	if sub != nil {
		info := sub.Info()
		envelope.OriginRoomUUID = info.UUID
		envelope.OriginRoomName = info.Name
	}
	if err := envelope.Validate(); err != nil {
		return err
	}

	var errs []error
	if err := main.SendChat(ctx, envelope); err != nil {
		errs = append(errs, err)
	}
	if sub != nil {
		if err := sub.SendChat(ctx, envelope); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Main returns the MAIN session, or nil when not joined.
func (c *Coordinator) Main() interfaces.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.main
}

// Sub returns the BREAKOUT session, or nil when none is live.
func (c *Coordinator) Sub() interfaces.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub
}

// ActiveBreakoutUUID returns the live breakout room's uuid, or "".
func (c *Coordinator) ActiveBreakoutUUID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub == nil {
		return ""
	}
	return c.sub.Info().UUID
}

// Live reports whether an event issued under generation is still
// valid for dispatch. Implements the hub's SessionSource gate.
func (c *Coordinator) Live(origin types.RoomKind, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.gen {
		return false
	}
	switch origin {
	case types.RoomMain:
		return c.main != nil
	case types.RoomBreakout:
		return c.sub != nil
	default:
		return false
	}
}

func (c *Coordinator) attach(origin types.RoomKind, gen uint64, s interfaces.Session) {
	if c.events != nil {
		c.events.Attach(origin, gen, s)
	}
}

func (c *Coordinator) stillJoining(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.main != nil && c.gen == gen
}
