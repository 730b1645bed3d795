package types

import (
	"regexp"
)

// Compiled once at package initialization.
var uuidLikeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsValidRoomUUID checks a room identifier against the wire format.
func IsValidRoomUUID(roomUUID string) bool {
	if len(roomUUID) < 1 || len(roomUUID) > 64 {
		return false
	}
	return uuidLikeRegex.MatchString(roomUUID)
}

// IsValidUserUUID checks a user identifier against the wire format.
func IsValidUserUUID(userUUID string) bool {
	if len(userUUID) < 1 || len(userUUID) > 64 {
		return false
	}
	return uuidLikeRegex.MatchString(userUUID)
}

// Validate ensures the room descriptor can be joined.
func (r RoomInfo) Validate() error {
	if !IsValidRoomUUID(r.UUID) {
		return ErrInvalidRoomUUID
	}
	if len(r.Name) < 1 || len(r.Name) > 200 {
		return ErrInvalidRoomName
	}
	return nil
}

// Validate ensures the identity can establish a session.
func (id Identity) Validate() error {
	if !IsValidUserUUID(id.UserUUID) {
		return ErrInvalidUserUUID
	}
	if len(id.UserName) < 1 || len(id.UserName) > 100 {
		return ErrInvalidUserName
	}
	return nil
}

// Validate ensures the envelope is sendable.
func (e ChatEnvelope) Validate() error {
	switch e.SenderRole {
	case RoleTeacher, RoleStudent:
	default:
		return ErrUnknownRole
	}
	if len(e.Body) == 0 {
		return ErrEmptyChatBody
	}
	if len(e.Body) > 32768 {
		return ErrChatBodyTooLarge
	}
	return nil
}
