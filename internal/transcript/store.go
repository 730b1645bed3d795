// Package transcript persists the local chat transcript to sqlite.
package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"breakout/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcript (
	id          TEXT PRIMARY KEY,
	room_uuid   TEXT NOT NULL,
	sender_uuid TEXT NOT NULL,
	sender_role INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	body        TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcript_room ON transcript(room_uuid, created_at);
`

var ErrStoreClosed = errors.New("transcript store is closed")

// writeOperation is one queued write and its completion channel.
type writeOperation struct {
	operation func(*sql.DB) error
	result    chan error
}

// Store is a sqlite-backed TranscriptStore. Writes funnel through a
// single goroutine; sqlite tolerates concurrent reads under WAL but
// not concurrent writers.
type Store struct {
	db       *sql.DB
	writeCh  chan writeOperation
	shutdown chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewStore opens (or creates) the transcript database at path. Use
// ":memory:" for an ephemeral store.
func NewStore(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening transcript database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating transcript schema: %w", err)
	}

	s := &Store{
		db:       db,
		writeCh:  make(chan writeOperation, 100),
		shutdown: make(chan struct{}),
		log:      log.With("component", "transcript"),
	}
	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *Store) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.writeCh:
			op.result <- op.operation(s.db)
		case <-s.shutdown:
			return
		}
	}
}

func (s *Store) executeWrite(ctx context.Context, operation func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	result := make(chan error, 1)
	select {
	case s.writeCh <- writeOperation{operation: operation, result: result}:
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-s.shutdown:
		return ErrStoreClosed
	}
}

// AppendEntry persists one transcript entry. CreatedAt defaults to now
// when unset.
func (s *Store) AppendEntry(ctx context.Context, entry *types.TranscriptEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return s.executeWrite(ctx, func(db *sql.DB) error {
		query := `
			INSERT INTO transcript (id, room_uuid, sender_uuid, sender_role, kind, body, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			entry.ID,
			entry.RoomUUID,
			entry.SenderUUID,
			int(entry.SenderRole),
			entry.Kind,
			entry.Body,
			entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting transcript entry: %w", err)
		}
		return nil
	})
}

// RecentEntries returns the newest entries for a room, oldest first.
func (s *Store) RecentEntries(ctx context.Context, roomUUID string, limit int) ([]*types.TranscriptEntry, error) {
	query := `
		SELECT id, room_uuid, sender_uuid, sender_role, kind, body, created_at
		FROM (
			SELECT * FROM transcript
			WHERE room_uuid = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, roomUUID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying transcript: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*types.TranscriptEntry
	for rows.Next() {
		var entry types.TranscriptEntry
		var role int
		err := rows.Scan(
			&entry.ID,
			&entry.RoomUUID,
			&entry.SenderUUID,
			&role,
			&entry.Kind,
			&entry.Body,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transcript row: %w", err)
		}
		entry.SenderRole = types.Role(role)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcript rows: %w", err)
	}
	return entries, nil
}

// Close drains the writer and closes the database. Safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing transcript database: %w", err)
	}
	return nil
}
