// Package mirror caches whiteboard and recording snapshots published
// as room properties on the MAIN session and propagates them one-way
// to the breakout viewer.
package mirror

import (
	"log/slog"
	"sync"

	"breakout/pkg/types"
)

// Mirror is the single owner of the board and record caches. Observe
// calls happen on the event-dispatch goroutine; the mutex covers reads
// from other goroutines (board pushes after async board-info fetches).
type Mirror struct {
	log *slog.Logger

	mu     sync.Mutex
	board  *types.BoardSnapshot
	record *types.RecordSnapshot
}

func New(log *slog.Logger) *Mirror {
	return &Mirror{log: log.With("component", "mirror")}
}

// Reset clears the board cache. Called when a new breakout session is
// established: the write-once guarantee is scoped to one sub-session
// lifetime. The record cache survives, it belongs to the MAIN room.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = nil
}

// Board returns the cached board snapshot, or nil if none arrived yet.
func (m *Mirror) Board() *types.BoardSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board
}

// ObserveBoard decodes a board property payload and caches it if the
// cache is still unset. Returns the snapshot and whether this call
// applied it; applied is false for repeat payloads (write-once) and
// for malformed payloads, which are logged and discarded.
func (m *Mirror) ObserveBoard(raw string, localUserUUID string) (*types.BoardSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.board != nil {
		return m.board, false
	}
	snap, err := types.DecodeBoard(raw, localUserUUID)
	if err != nil {
		m.log.Warn("discarding malformed board payload", "error", err)
		return nil, false
	}
	m.board = &snap
	return m.board, true
}

// SetBoard caches an explicitly fetched board snapshot, subject to the
// same write-once rule as ObserveBoard.
func (m *Mirror) SetBoard(snap types.BoardSnapshot) (*types.BoardSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.board != nil {
		return m.board, false
	}
	m.board = &snap
	return m.board, true
}

// ObserveRecord decodes a record property payload. The cache is
// replaced only when the decoded state differs from the cached one
// (edge-triggered); ended is true exactly on the transition into
// RecordEnd, never on repeated observations of it.
func (m *Mirror) ObserveRecord(raw string) (snap *types.RecordSnapshot, ended bool) {
	decoded, err := types.DecodeRecord(raw)
	if err != nil {
		m.log.Warn("discarding malformed record payload", "error", err)
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record != nil && m.record.State == decoded.State {
		return m.record, false
	}
	m.record = &decoded
	return m.record, decoded.State == types.RecordEnd
}

// Record returns the cached record snapshot, or nil.
func (m *Mirror) Record() *types.RecordSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record
}
