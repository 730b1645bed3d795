package provider

import "breakout/pkg/types"

// Frame types exchanged with the classroom realtime service.
const (
	frameJoin    = "join"
	frameWelcome = "welcome"
	frameEvent   = "event"
	frameChat    = "chat"
	frameError   = "error"
)

type frame struct {
	Type    string              `json:"type"`
	Join    *joinPayload        `json:"join,omitempty"`
	Welcome *welcomePayload     `json:"welcome,omitempty"`
	Event   *eventPayload       `json:"event,omitempty"`
	Chat    *types.ChatEnvelope `json:"chat,omitempty"`
	Error   *errorPayload       `json:"error,omitempty"`
}

type joinPayload struct {
	Room     types.RoomInfo    `json:"room"`
	Identity types.Identity    `json:"identity"`
	Options  types.JoinOptions `json:"options"`
}

// welcomePayload is the full room snapshot delivered once after a
// successful join.
type welcomePayload struct {
	Room       types.RoomInfo     `json:"room"`
	Status     types.RoomStatus   `json:"status"`
	LocalUser  types.UserInfo     `json:"localUser"`
	Roster     []types.UserInfo   `json:"roster"`
	Streams    []types.StreamInfo `json:"streams"`
	Properties map[string]string  `json:"properties"`
}

// eventPayload embeds the notification plus the state it moves the
// room to, so the session can stay a faithful mirror.
type eventPayload struct {
	types.Event
	RoomStatus *types.RoomStatus `json:"roomStatus,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type errorPayload struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
