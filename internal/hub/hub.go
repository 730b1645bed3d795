// Package hub serializes the two sessions' event streams into a
// single dispatch goroutine. All mutations of the merged view happen
// on that goroutine; there is never a second writer.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"breakout/pkg/interfaces"
	"breakout/pkg/types"
)

// Dispatcher consumes one tagged event at a time on the hub goroutine.
type Dispatcher interface {
	Dispatch(ev types.TaggedEvent, main, sub interfaces.Session)
}

// SessionSource supplies the current sessions and decides whether an
// event's generation is still live. The coordinator implements it.
type SessionSource interface {
	Main() interfaces.Session
	Sub() interfaces.Session
	Live(origin types.RoomKind, generation uint64) bool
}

// Hub fans events from both sessions into one buffered channel and
// runs the single dispatch loop. Events from a generation that has
// been left are dropped before dispatch.
type Hub struct {
	events     chan types.TaggedEvent
	dispatcher Dispatcher
	source     SessionSource
	log        *slog.Logger

	shutdown chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// New creates a hub. The buffer absorbs bursts (roster and stream
// snapshots arriving from both rooms at join time).
func New(dispatcher Dispatcher, source SessionSource, log *slog.Logger) *Hub {
	return &Hub{
		events:     make(chan types.TaggedEvent, 1024),
		dispatcher: dispatcher,
		source:     source,
		log:        log.With("component", "hub"),
		shutdown:   make(chan struct{}),
	}
}

// Start begins dispatch processing.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return ErrHubAlreadyRunning
	}
	h.running = true

	h.wg.Add(1)
	go h.run(ctx)
	return nil
}

// Stop terminates dispatch processing and waits for the loop and all
// forwarders to exit.
func (h *Hub) Stop() error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return ErrHubNotRunning
	}
	h.running = false
	h.mu.Unlock()

	close(h.shutdown)
	h.wg.Wait()
	return nil
}

// Attach starts forwarding a session's events into the hub, tagged
// with their origin room and the generation they were issued under.
// The forwarder exits when the session's event channel closes (leave)
// or the hub stops.
func (h *Hub) Attach(origin types.RoomKind, generation uint64, s interfaces.Session) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for ev := range s.Events() {
			select {
			case h.events <- types.TaggedEvent{Origin: origin, Generation: generation, Event: ev}:
			case <-h.shutdown:
				return
			}
		}
	}()
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case ev := <-h.events:
			if !h.source.Live(ev.Origin, ev.Generation) {
				h.log.Debug("dropping stale event", "origin", ev.Origin.String(),
					"generation", ev.Generation, "kind", ev.Event.Kind.String())
				continue
			}
			h.dispatcher.Dispatch(ev, h.source.Main(), h.source.Sub())
		case <-h.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}
