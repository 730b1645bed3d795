package types

import (
	"encoding/json"
)

// boardPayload matches the JSON string published under the "board"
// room property on the MAIN session.
type boardPayload struct {
	Info struct {
		BoardID    string `json:"boardId"`
		BoardToken string `json:"boardToken"`
	} `json:"info"`
	State struct {
		Follow     int      `json:"follow"`
		GrantUsers []string `json:"grantUsers"`
	} `json:"state"`
}

// recordPayload matches the JSON string published under the "record"
// room property on the MAIN session.
type recordPayload struct {
	State        int    `json:"state"`
	RecordID     string `json:"recordId"`
	RecordingURL string `json:"recordingUrl"`
}

// DecodeBoard parses a board room-property payload. Granted reflects
// whether localUserUUID appears in the grant list.
func DecodeBoard(raw string, localUserUUID string) (BoardSnapshot, error) {
	var p boardPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return BoardSnapshot{}, err
	}
	if p.Info.BoardID == "" || p.Info.BoardToken == "" {
		return BoardSnapshot{}, ErrMalformedBoardPayload
	}
	snap := BoardSnapshot{
		BoardID:    p.Info.BoardID,
		BoardToken: p.Info.BoardToken,
		FollowMode: p.State.Follow != 0,
	}
	for _, u := range p.State.GrantUsers {
		if u == localUserUUID {
			snap.Granted = true
			break
		}
	}
	return snap, nil
}

// DecodeRecord parses a record room-property payload.
func DecodeRecord(raw string) (RecordSnapshot, error) {
	var p recordPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return RecordSnapshot{}, err
	}
	state := RecordState(p.State)
	switch state {
	case RecordIdle, RecordRecording, RecordEnd:
	default:
		return RecordSnapshot{}, ErrMalformedRecordPayload
	}
	return RecordSnapshot{
		State:     state,
		RecordID:  p.RecordID,
		ReplayURL: p.RecordingURL,
	}, nil
}
