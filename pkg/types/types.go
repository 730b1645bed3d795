package types

import (
	"time"
)

// RoomKind distinguishes the two sessions a coordinator may hold.
// Exactly one MAIN and at most one BREAKOUT session exist at any time.
type RoomKind int

const (
	RoomMain RoomKind = iota + 1
	RoomBreakout
)

func (k RoomKind) String() string {
	switch k {
	case RoomMain:
		return "main"
	case RoomBreakout:
		return "breakout"
	default:
		return "unknown"
	}
}

// Role identifies a participant's classroom role. The numeric values
// match the wire protocol and are immutable for a session's lifetime.
type Role int

const (
	RoleTeacher Role = 1
	RoleStudent Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleTeacher:
		return "teacher"
	case RoleStudent:
		return "student"
	default:
		return "unknown"
	}
}

// VideoSource describes what a stream publishes.
type VideoSource int

const (
	SourceNone VideoSource = iota
	SourceCamera
	SourceScreen
)

// CourseState is the running state of the classroom course.
type CourseState int

const (
	CourseInit CourseState = iota
	CourseStart
	CourseEnd
)

// RecordState is the lifecycle state of the classroom recording.
type RecordState int

const (
	RecordIdle RecordState = iota
	RecordRecording
	RecordEnd
)

// NetworkQuality mirrors the provider's per-user quality report.
type NetworkQuality int

const (
	QualityUnknown NetworkQuality = iota
	QualityGood
	QualityPoor
	QualityBad
)

// ConnectionState mirrors the provider's connection lifecycle report.
type ConnectionState int

const (
	ConnDisconnected ConnectionState = iota
	ConnConnecting
	ConnConnected
	ConnReconnecting
	ConnAborted
)

// Room property keys the coordinator mirrors from MAIN to the
// breakout viewer.
const (
	PropertyKeyBoard  = "board"
	PropertyKeyRecord = "record"
)

// RoomInfo identifies one room session.
type RoomInfo struct {
	UUID string   `json:"roomUuid"`
	Name string   `json:"roomName"`
	Kind RoomKind `json:"kind"`
}

// RoomStatus is the room-level state reported by the provider.
// StartTime is unix milliseconds, matching the wire protocol.
type RoomStatus struct {
	CourseState        CourseState `json:"courseState"`
	StartTime          int64       `json:"startTime"`
	StudentChatAllowed bool        `json:"studentChatAllowed"`
	OnlineUserCount    int         `json:"onlineUserCount"`
}

// Elapsed returns how long the course has been running.
func (s RoomStatus) Elapsed(now time.Time) time.Duration {
	if s.StartTime <= 0 {
		return 0
	}
	return now.Sub(time.UnixMilli(s.StartTime))
}

// Identity is the local user joining the classroom.
type Identity struct {
	UserUUID string `json:"userUuid"`
	UserName string `json:"userName"`
}

// UserInfo describes one roster member. SessionToken is issued per
// joined room; the breakout token is installed on outbound credentials
// after a successful sub-session join.
type UserInfo struct {
	UUID         string `json:"userUuid"`
	Name         string `json:"userName"`
	Role         Role   `json:"role"`
	SessionToken string `json:"userToken,omitempty"`
}

// StreamInfo describes one published audio/video feed. Publisher role
// is never reassigned after creation.
type StreamInfo struct {
	UUID      string      `json:"streamUuid"`
	Publisher UserInfo    `json:"publisher"`
	Source    VideoSource `json:"videoSource"`
}

// ChatEnvelope is one chat message as carried on the wire. An empty
// OriginRoomUUID means the message is a broadcast to all rooms.
type ChatEnvelope struct {
	Sender         UserInfo `json:"fromUser"`
	SenderRole     Role     `json:"role"`
	Body           string   `json:"content"`
	OriginRoomUUID string   `json:"fromRoomUuid,omitempty"`
	OriginRoomName string   `json:"fromRoomName,omitempty"`
}

// IsBroadcast reports whether the envelope targets all rooms.
func (e ChatEnvelope) IsBroadcast() bool {
	return e.OriginRoomUUID == ""
}

// BoardSnapshot is the decoded whiteboard room property. Once cached
// for a breakout session it is never overwritten while that session
// is alive.
type BoardSnapshot struct {
	BoardID    string
	BoardToken string
	FollowMode bool
	Granted    bool
}

// RecordSnapshot is the decoded recording room property. The cache is
// replaced only when the incoming state differs from the cached one.
type RecordSnapshot struct {
	State     RecordState
	RecordID  string
	ReplayURL string
}

// JoinOptions select per-room join behavior. The breakout join asks
// for the roster snapshot but never republishes local media that is
// already published on MAIN.
type JoinOptions struct {
	IsMain            bool `json:"isMain"`
	PublishLocalMedia bool `json:"publish"`
	SubscribeEvents   bool `json:"subscribe"`
}

// Transcript entry kinds.
const (
	TranscriptKindChat   = "chat"
	TranscriptKindReplay = "replay"
)

// TranscriptEntry is one persisted line of the local chat transcript.
type TranscriptEntry struct {
	ID         string    `json:"id" db:"id"`
	RoomUUID   string    `json:"room_uuid" db:"room_uuid"`
	SenderUUID string    `json:"sender_uuid" db:"sender_uuid"`
	SenderRole Role      `json:"sender_role" db:"sender_role"`
	Kind       string    `json:"kind" db:"kind"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
