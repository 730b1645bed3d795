package interfaces

import (
	"context"

	"breakout/pkg/types"
)

// Allocator requests a breakout-room assignment from the external
// allocation service.
type Allocator interface {
	// Allocate returns the sub-room descriptor assigned to userUUID
	// under mainRoomUUID. The returned RoomInfo carries Kind
	// RoomBreakout.
	Allocate(ctx context.Context, mainRoomUUID, userUUID string) (types.RoomInfo, error)
}
