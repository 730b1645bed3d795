package types

// EventKind enumerates the notifications a joined session delivers.
type EventKind int

const (
	EventRosterInitialized EventKind = iota + 1
	EventRosterJoined
	EventRosterLeft
	EventRosterUpdated
	EventStreamsInitialized
	EventStreamsAdded
	EventStreamsUpdated
	EventStreamsRemoved
	EventRoomStatusChanged
	EventRoomPropertyChanged
	EventChatReceived
	EventNetworkQualityChanged
	EventConnectionStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventRosterInitialized:
		return "roster_initialized"
	case EventRosterJoined:
		return "roster_joined"
	case EventRosterLeft:
		return "roster_left"
	case EventRosterUpdated:
		return "roster_updated"
	case EventStreamsInitialized:
		return "streams_initialized"
	case EventStreamsAdded:
		return "streams_added"
	case EventStreamsUpdated:
		return "streams_updated"
	case EventStreamsRemoved:
		return "streams_removed"
	case EventRoomStatusChanged:
		return "room_status_changed"
	case EventRoomPropertyChanged:
		return "room_property_changed"
	case EventChatReceived:
		return "chat_received"
	case EventNetworkQualityChanged:
		return "network_quality_changed"
	case EventConnectionStateChanged:
		return "connection_state_changed"
	default:
		return "unknown"
	}
}

// StatusChange narrows a room-status-changed event to the field that
// moved.
type StatusChange int

const (
	StatusCourseState StatusChange = iota + 1
	StatusAllStudentsChat
)

// Event is one notification from a session. Only the fields relevant
// to Kind are populated.
type Event struct {
	Kind        EventKind       `json:"kind"`
	Users       []UserInfo      `json:"users,omitempty"`
	Streams     []StreamInfo    `json:"streams,omitempty"`
	Status      StatusChange    `json:"statusChange,omitempty"`
	ChangedKeys []string        `json:"changedKeys,omitempty"`
	Chat        *ChatEnvelope   `json:"chat,omitempty"`
	Quality     NetworkQuality  `json:"quality,omitempty"`
	Connection  ConnectionState `json:"connection,omitempty"`
}

// TaggedEvent is an Event stamped with the room it came from and the
// breakout generation it was issued under. Events whose generation no
// longer matches the coordinator's are dropped before dispatch, which
// makes deliveries from a defunct session no-ops.
type TaggedEvent struct {
	Origin     RoomKind
	Generation uint64
	Event      Event
}
