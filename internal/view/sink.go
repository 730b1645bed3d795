package view

import (
	"log/slog"
	"time"

	"breakout/pkg/types"
)

// LogSink is a DisplaySink that writes every view mutation to the
// structured log. It backs the CLI binary, where no real renderer is
// attached, and doubles as a readable trace of the merged view.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a sink logging under the "view" component.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "view")}
}

func (s *LogSink) ShowVideoList(streams []types.StreamInfo, teacherPresent bool) {
	uuids := make([]string, 0, len(streams))
	for _, st := range streams {
		uuids = append(uuids, st.UUID)
	}
	s.log.Info("video list", "streams", uuids, "teacherPresent", teacherPresent)
}

func (s *LogSink) ShowRoster(users []types.UserInfo) {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	s.log.Info("roster", "users", names)
}

func (s *LogSink) SetLocalUser(userUUID string) {
	s.log.Info("local user", "userUuid", userUUID)
}

func (s *LogSink) SetTitle(title string) {
	s.log.Info("title", "title", title)
}

func (s *LogSink) SetTimeState(running bool, elapsed time.Duration) {
	s.log.Info("time state", "running", running, "elapsed", elapsed.Truncate(time.Second))
}

func (s *LogSink) SetMuteAll(muted bool) {
	s.log.Info("mute all", "muted", muted)
}

func (s *LogSink) AddChatMessage(envelope types.ChatEnvelope, isMe bool) {
	s.log.Info("chat", "from", envelope.Sender.Name, "role", envelope.SenderRole.String(),
		"body", envelope.Body, "isMe", isMe)
}

func (s *LogSink) InitBoard(boardID, boardToken, localUserUUID string) {
	s.log.Info("board init", "boardId", boardID, "localUser", localUserUUID)
}

func (s *LogSink) ShowScreenShare(stream types.StreamInfo) {
	s.log.Info("screen share", "streamUuid", stream.UUID, "publisher", stream.Publisher.Name)
}

func (s *LogSink) SetNetworkQuality(quality types.NetworkQuality) {
	s.log.Info("network quality", "quality", int(quality))
}
