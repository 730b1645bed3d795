package router

import (
	"breakout/pkg/types"
)

// Visible decides whether an inbound chat message is shown in the
// current room context. It is a pure, total function of the four
// inputs. A message is visible when any of the following holds:
//
//  1. delivered via MAIN, sender is a teacher, and the envelope has no
//     origin room (teacher broadcast to everyone);
//  2. delivered via MAIN, sender is a teacher, and the origin room is
//     the active breakout room (teacher message addressed to this
//     sub-room);
//  3. delivered via BREAKOUT (sub-room-local chat is always visible to
//     sub-room members).
//
// Everything else is dropped.
func Visible(delivery types.RoomKind, senderRole types.Role, originRoomUUID, activeBreakoutUUID string) bool {
	if delivery == types.RoomBreakout {
		return true
	}
	if delivery != types.RoomMain || senderRole != types.RoleTeacher {
		return false
	}
	if originRoomUUID == "" {
		return true
	}
	return activeBreakoutUUID != "" && originRoomUUID == activeBreakoutUUID
}
