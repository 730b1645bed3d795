package interfaces

import (
	"time"

	"breakout/pkg/types"
)

// DisplaySink consumes the merged application view. Push-only; nothing
// flows back into the core. Implementations must tolerate calls from
// the event-dispatch goroutine and from board-info completions.
type DisplaySink interface {
	// ShowVideoList replaces the displayed video list. teacherPresent
	// is false exactly when no stream is published by a teacher, in
	// which case the "no teacher" placeholder should be shown.
	ShowVideoList(streams []types.StreamInfo, teacherPresent bool)

	// ShowRoster replaces the displayed user list.
	ShowRoster(users []types.UserInfo)

	// SetLocalUser tells the roster view which entry is the local user.
	SetLocalUser(userUUID string)

	// SetTitle sets the displayed room title.
	SetTitle(title string)

	// SetTimeState updates the running-time indicator.
	SetTimeState(running bool, elapsed time.Duration)

	// SetMuteAll updates the mute-all-students indicator.
	SetMuteAll(muted bool)

	// AddChatMessage appends a message that passed visibility routing.
	AddChatMessage(envelope types.ChatEnvelope, isMe bool)

	// InitBoard hands the whiteboard viewer its join credentials.
	InitBoard(boardID, boardToken, localUserUUID string)

	// ShowScreenShare switches the display to the screen-share surface,
	// suppressing the whiteboard surface.
	ShowScreenShare(stream types.StreamInfo)

	// SetNetworkQuality updates the connection quality indicator.
	SetNetworkQuality(quality types.NetworkQuality)
}
