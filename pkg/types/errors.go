package types

import "errors"

var (
	ErrInvalidRoomUUID        = errors.New("room UUID must be 1-64 characters, alphanumeric + underscore/hyphen only")
	ErrInvalidRoomName        = errors.New("room name must be 1-200 characters")
	ErrInvalidUserUUID        = errors.New("user UUID must be 1-64 characters, alphanumeric + underscore/hyphen only")
	ErrInvalidUserName        = errors.New("user name must be 1-100 characters")
	ErrUnknownRole            = errors.New("role must be teacher or student")
	ErrEmptyChatBody          = errors.New("chat body cannot be empty")
	ErrChatBodyTooLarge       = errors.New("chat body exceeds 32KB limit")
	ErrMalformedBoardPayload  = errors.New("board payload missing board id or token")
	ErrMalformedRecordPayload = errors.New("record payload has unknown state")
)
