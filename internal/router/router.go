// Package router classifies events arriving from the two room
// sessions and applies the per-event-kind rules that keep the merged
// application view consistent. All routing decisions are pure reads of
// the latest cached session state; staleness is self-correcting on the
// next event.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"breakout/internal/mirror"
	"breakout/internal/view"
	"breakout/pkg/interfaces"
	"breakout/pkg/types"
)

// BoardFetcher fetches whiteboard credentials explicitly when the MAIN
// roster initializes before any board property has been published.
type BoardFetcher interface {
	FetchBoard(ctx context.Context, roomUUID string) (types.BoardSnapshot, error)
}

// Router dispatches origin-tagged events to the display sink, the
// shared-state mirror, and the chat transcript. It holds no session
// state of its own; sessions are handed in per dispatch so late events
// from a defunct session can never resurrect stale references.
type Router struct {
	sink       interfaces.DisplaySink
	mirror     *mirror.Mirror
	transcript interfaces.TranscriptStore
	boards     BoardFetcher
	log        *slog.Logger

	boardFetchTimeout time.Duration
}

// New creates an event router. transcript and boards may be nil, in
// which case persistence and explicit board fetches are skipped.
func New(sink interfaces.DisplaySink, m *mirror.Mirror, transcript interfaces.TranscriptStore, boards BoardFetcher, log *slog.Logger) *Router {
	return &Router{
		sink:              sink,
		mirror:            m,
		transcript:        transcript,
		boards:            boards,
		log:               log.With("component", "router"),
		boardFetchTimeout: 10 * time.Second,
	}
}

// Dispatch applies the routing rules for one event. Called only from
// the hub's dispatch goroutine; main is never nil, sub is nil until
// the breakout session is joined and after it is left.
func (r *Router) Dispatch(ev types.TaggedEvent, main, sub interfaces.Session) {
	switch ev.Event.Kind {
	case types.EventRosterInitialized:
		r.onRosterInitialized(ev.Origin, main, sub)
	case types.EventRosterJoined, types.EventRosterLeft, types.EventRosterUpdated:
		r.onRosterChanged(ev.Origin, main, sub)
	case types.EventStreamsInitialized:
		r.onStreamsInitialized(ev.Origin, ev.Event.Streams, main, sub)
	case types.EventStreamsAdded, types.EventStreamsUpdated, types.EventStreamsRemoved:
		r.onStreamsChanged(ev.Origin, ev.Event.Streams, main, sub)
	case types.EventRoomStatusChanged:
		r.onRoomStatusChanged(ev.Origin, ev.Event.Status, main)
	case types.EventRoomPropertyChanged:
		r.onRoomPropertyChanged(ev.Origin, ev.Event.ChangedKeys, main, sub)
	case types.EventChatReceived:
		r.onChatReceived(ev.Origin, ev.Event.Chat, main, sub)
	case types.EventNetworkQualityChanged:
		if ev.Origin == types.RoomBreakout {
			r.sink.SetNetworkQuality(ev.Event.Quality)
		}
	case types.EventConnectionStateChanged:
		r.log.Debug("connection state changed", "origin", ev.Origin.String(), "state", int(ev.Event.Connection))
	default:
		r.log.Warn("unknown event kind", "kind", int(ev.Event.Kind))
	}
}

func (r *Router) onRosterInitialized(origin types.RoomKind, main, sub interfaces.Session) {
	switch origin {
	case types.RoomMain:
		// The board may already have been published as a room property
		// before the roster settled; otherwise ask for it explicitly.
		localUUID := main.LocalUser().UUID
		if raw, ok := main.Property(types.PropertyKeyBoard); ok {
			r.mirror.ObserveBoard(raw, localUUID)
		}
		if board := r.mirror.Board(); board != nil {
			r.sink.InitBoard(board.BoardID, board.BoardToken, localUUID)
		} else {
			r.fetchBoard(main.Info().UUID, localUUID)
		}
		r.refreshStatus(main)
	case types.RoomBreakout:
		r.refreshRoster(sub)
	}
}

func (r *Router) onRosterChanged(origin types.RoomKind, main, sub interfaces.Session) {
	switch origin {
	case types.RoomMain:
		r.refreshStatus(main)
	case types.RoomBreakout:
		r.refreshRoster(sub)
	}
}

func (r *Router) onStreamsInitialized(origin types.RoomKind, streams []types.StreamInfo, main, sub interfaces.Session) {
	switch origin {
	case types.RoomMain:
		for _, stream := range streams {
			if stream.Publisher.Role != types.RoleTeacher {
				continue
			}
			switch stream.Source {
			case types.SourceCamera:
				r.recomputeVideoList(main, sub)
			case types.SourceScreen:
				// Screen share replaces the whiteboard surface.
				r.sink.ShowScreenShare(stream)
			}
		}
	case types.RoomBreakout:
		if sub != nil {
			r.sink.SetLocalUser(sub.LocalUser().UUID)
		}
		r.refreshRoster(sub)
		r.recomputeVideoList(main, sub)
	}
}

func (r *Router) onStreamsChanged(origin types.RoomKind, streams []types.StreamInfo, main, sub interfaces.Session) {
	if view.HasCameraChange(streams) {
		r.recomputeVideoList(main, sub)
	}
	if origin == types.RoomBreakout {
		r.refreshRoster(sub)
	}
}

func (r *Router) onRoomStatusChanged(origin types.RoomKind, change types.StatusChange, main interfaces.Session) {
	if origin != types.RoomMain {
		return
	}
	status := main.Status()
	switch change {
	case types.StatusCourseState:
		r.sink.SetTimeState(status.CourseState == types.CourseStart, status.Elapsed(time.Now()))
	case types.StatusAllStudentsChat:
		r.sink.SetMuteAll(!status.StudentChatAllowed)
	}
}

func (r *Router) onRoomPropertyChanged(origin types.RoomKind, changedKeys []string, main, sub interfaces.Session) {
	// The sub-session never republishes board or record properties.
	if origin != types.RoomMain {
		return
	}
	for _, key := range changedKeys {
		switch key {
		case types.PropertyKeyBoard:
			raw, ok := main.Property(types.PropertyKeyBoard)
			if !ok {
				continue
			}
			localUUID := main.LocalUser().UUID
			if snap, applied := r.mirror.ObserveBoard(raw, localUUID); applied {
				r.sink.InitBoard(snap.BoardID, snap.BoardToken, localUUID)
			}
		case types.PropertyKeyRecord:
			raw, ok := main.Property(types.PropertyKeyRecord)
			if !ok {
				continue
			}
			if snap, ended := r.mirror.ObserveRecord(raw); ended {
				r.emitReplayNotice(main, snap)
			}
		}
	}
}

func (r *Router) onChatReceived(origin types.RoomKind, chat *types.ChatEnvelope, main, sub interfaces.Session) {
	if chat == nil {
		return
	}
	var activeBreakout string
	if sub != nil {
		activeBreakout = sub.Info().UUID
	}
	if !Visible(origin, chat.SenderRole, chat.OriginRoomUUID, activeBreakout) {
		return
	}

	isMe := false
	if main != nil && chat.Sender.UUID == main.LocalUser().UUID {
		isMe = true
	}
	r.sink.AddChatMessage(*chat, isMe)
	r.appendTranscript(main, &types.TranscriptEntry{
		ID:         uuid.New().String(),
		SenderUUID: chat.Sender.UUID,
		SenderRole: chat.SenderRole,
		Kind:       types.TranscriptKindChat,
		Body:       chat.Body,
		CreatedAt:  time.Now(),
	})
}

// emitReplayNotice produces the single self-authored transcript entry
// for a recording that just ended.
func (r *Router) emitReplayNotice(main interfaces.Session, snap *types.RecordSnapshot) {
	local := main.LocalUser()
	notice := types.ChatEnvelope{
		Sender:     local,
		SenderRole: local.Role,
		Body:       fmt.Sprintf("Class ended. Watch the replay: %s", snap.ReplayURL),
	}
	r.sink.AddChatMessage(notice, true)
	r.appendTranscript(main, &types.TranscriptEntry{
		ID:         uuid.New().String(),
		SenderUUID: local.UUID,
		SenderRole: local.Role,
		Kind:       types.TranscriptKindReplay,
		Body:       snap.ReplayURL,
		CreatedAt:  time.Now(),
	})
}

func (r *Router) recomputeVideoList(main, sub interfaces.Session) {
	var mainStreams, subStreams []types.StreamInfo
	if main != nil {
		mainStreams = main.Streams()
	}
	if sub != nil {
		subStreams = sub.Streams()
	}
	list, teacherPresent := view.Compose(mainStreams, subStreams)
	r.sink.ShowVideoList(list, teacherPresent)
}

func (r *Router) refreshRoster(sub interfaces.Session) {
	if sub == nil {
		return
	}
	r.sink.ShowRoster(sub.Roster())
	r.sink.SetTitle(sub.Info().Name)
}

func (r *Router) refreshStatus(main interfaces.Session) {
	status := main.Status()
	r.sink.SetTimeState(status.CourseState == types.CourseStart, status.Elapsed(time.Now()))
	r.sink.SetMuteAll(!status.StudentChatAllowed)
}

// fetchBoard requests board credentials off the dispatch goroutine and
// pushes the result through the mirror's write-once gate.
func (r *Router) fetchBoard(roomUUID, localUserUUID string) {
	if r.boards == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.boardFetchTimeout)
		defer cancel()

		snap, err := r.boards.FetchBoard(ctx, roomUUID)
		if err != nil {
			r.log.Warn("board info request failed", "roomUuid", roomUUID, "error", err)
			return
		}
		if cached, applied := r.mirror.SetBoard(snap); applied {
			r.sink.InitBoard(cached.BoardID, cached.BoardToken, localUserUUID)
		}
	}()
}

func (r *Router) appendTranscript(main interfaces.Session, entry *types.TranscriptEntry) {
	if r.transcript == nil || main == nil {
		return
	}
	entry.RoomUUID = main.Info().UUID
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.transcript.AppendEntry(ctx, entry); err != nil {
		r.log.Warn("transcript append failed", "error", err)
	}
}
