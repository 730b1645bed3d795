package provider

import (
	"context"
	"log/slog"
	"sync"

	"breakout/pkg/types"
)

// session mirrors one joined room: roster, streams, status, and
// properties track the service's state as events arrive, and every
// event is forwarded on the Events channel. The read loop is the only
// writer of the mirrored state.
type session struct {
	conn   *connection
	info   types.RoomInfo
	local  types.UserInfo
	events chan types.Event
	log    *slog.Logger

	mu      sync.RWMutex
	status  types.RoomStatus
	roster  []types.UserInfo
	streams []types.StreamInfo
	props   map[string]string
}

func newSession(conn *connection, welcome *welcomePayload, eventBuffer int, log *slog.Logger) *session {
	props := welcome.Properties
	if props == nil {
		props = map[string]string{}
	}
	s := &session{
		conn:    conn,
		info:    welcome.Room,
		local:   welcome.LocalUser,
		events:  make(chan types.Event, eventBuffer),
		log:     log.With("roomUuid", welcome.Room.UUID),
		status:  welcome.Status,
		roster:  welcome.Roster,
		streams: welcome.Streams,
		props:   props,
	}
	go s.readLoop()
	return s
}

func (s *session) Info() types.RoomInfo { return s.info }

func (s *session) Status() types.RoomStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *session) LocalUser() types.UserInfo { return s.local }

func (s *session) Roster() []types.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UserInfo, len(s.roster))
	copy(out, s.roster)
	return out
}

func (s *session) Streams() []types.StreamInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.StreamInfo, len(s.streams))
	copy(out, s.streams)
	return out
}

func (s *session) Property(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.props[key]
	return v, ok
}

func (s *session) Events() <-chan types.Event { return s.events }

func (s *session) SendChat(_ context.Context, envelope types.ChatEnvelope) error {
	if err := envelope.Validate(); err != nil {
		return err
	}
	return s.conn.writeJSON(frame{Type: frameChat, Chat: &envelope})
}

func (s *session) Leave() error {
	return s.conn.close()
}

// readLoop consumes frames until the connection dies, applying each
// event to the mirrored state before forwarding it. The events channel
// closes when the loop exits, which is how consumers observe leave.
func (s *session) readLoop() {
	defer close(s.events)
	for {
		f, err := s.conn.readFrame()
		if err != nil {
			return
		}
		switch f.Type {
		case frameEvent:
			if f.Event == nil {
				continue
			}
			s.apply(f.Event)
			select {
			case s.events <- f.Event.Event:
			default:
				s.log.Warn("event buffer full, dropping event", "kind", f.Event.Kind.String())
			}
		case frameError:
			if f.Error != nil {
				s.log.Warn("service error frame", "code", f.Error.Code, "msg", f.Error.Msg)
			}
		default:
			s.log.Debug("ignoring frame", "type", f.Type)
		}
	}
}

func (s *session) apply(ev *eventPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case types.EventRosterInitialized:
		s.roster = ev.Users
	case types.EventRosterJoined:
		s.roster = append(s.roster, ev.Users...)
	case types.EventRosterLeft:
		for _, u := range ev.Users {
			s.roster = removeUser(s.roster, u.UUID)
		}
	case types.EventRosterUpdated:
		for _, u := range ev.Users {
			s.roster = replaceUser(s.roster, u)
		}
	case types.EventStreamsInitialized:
		s.streams = ev.Streams
	case types.EventStreamsAdded:
		s.streams = append(s.streams, ev.Streams...)
	case types.EventStreamsUpdated:
		for _, st := range ev.Streams {
			s.streams = replaceStream(s.streams, st)
		}
	case types.EventStreamsRemoved:
		for _, st := range ev.Streams {
			s.streams = removeStream(s.streams, st.UUID)
		}
	case types.EventRoomStatusChanged:
		if ev.RoomStatus != nil {
			s.status = *ev.RoomStatus
		}
	case types.EventRoomPropertyChanged:
		for k, v := range ev.Properties {
			s.props[k] = v
		}
	}
}

func removeUser(roster []types.UserInfo, uuid string) []types.UserInfo {
	out := roster[:0]
	for _, u := range roster {
		if u.UUID != uuid {
			out = append(out, u)
		}
	}
	return out
}

func replaceUser(roster []types.UserInfo, user types.UserInfo) []types.UserInfo {
	for i, u := range roster {
		if u.UUID == user.UUID {
			roster[i] = user
			return roster
		}
	}
	return append(roster, user)
}

func removeStream(streams []types.StreamInfo, uuid string) []types.StreamInfo {
	out := streams[:0]
	for _, st := range streams {
		if st.UUID != uuid {
			out = append(out, st)
		}
	}
	return out
}

func replaceStream(streams []types.StreamInfo, stream types.StreamInfo) []types.StreamInfo {
	for i, st := range streams {
		if st.UUID == stream.UUID {
			streams[i] = stream
			return streams
		}
	}
	return append(streams, stream)
}
