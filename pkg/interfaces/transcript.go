package interfaces

import (
	"context"

	"breakout/pkg/types"
)

// TranscriptStore persists the local chat transcript: every visible
// chat message plus the replay notice emitted when recording ends.
type TranscriptStore interface {
	AppendEntry(ctx context.Context, entry *types.TranscriptEntry) error
	RecentEntries(ctx context.Context, roomUUID string, limit int) ([]*types.TranscriptEntry, error)
	Close() error
}
