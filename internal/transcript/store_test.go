package transcript

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"breakout/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:", slog.Default())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func entry(roomUUID, body string, at time.Time) *types.TranscriptEntry {
	return &types.TranscriptEntry{
		ID:         uuid.NewString(),
		RoomUUID:   roomUUID,
		SenderUUID: "u1",
		SenderRole: types.RoleStudent,
		Kind:       types.TranscriptKindChat,
		Body:       body,
		CreatedAt:  at,
	}
}

func TestAppendAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i, body := range []string{"first", "second", "third"} {
		if err := s.AppendEntry(ctx, entry("main1", body, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("AppendEntry(%q) error: %v", body, err)
		}
	}

	got, err := s.RecentEntries(ctx, "main1", 10)
	if err != nil {
		t.Fatalf("RecentEntries() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Body != want {
			t.Errorf("entry %d = %q, want %q (oldest first)", i, got[i].Body, want)
		}
	}
	if got[0].SenderRole != types.RoleStudent || got[0].Kind != types.TranscriptKindChat {
		t.Errorf("entry fields lost: %+v", got[0])
	}
}

func TestRecentEntriesLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := s.AppendEntry(ctx, entry("main1", "msg", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("AppendEntry() error: %v", err)
		}
	}

	got, err := s.RecentEntries(ctx, "main1", 2)
	if err != nil {
		t.Fatalf("RecentEntries() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries, want the 2 newest", len(got))
	}
}

func TestRecentEntriesScopedByRoom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.AppendEntry(ctx, entry("main1", "in main", now)); err != nil {
		t.Fatalf("AppendEntry() error: %v", err)
	}
	if err := s.AppendEntry(ctx, entry("sub1", "in breakout", now)); err != nil {
		t.Fatalf("AppendEntry() error: %v", err)
	}

	got, err := s.RecentEntries(ctx, "sub1", 10)
	if err != nil {
		t.Fatalf("RecentEntries() error: %v", err)
	}
	if len(got) != 1 || got[0].Body != "in breakout" {
		t.Errorf("got %+v, want only the breakout entry", got)
	}
}

func TestAppendDefaultsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	e := entry("main1", "hello", time.Time{})
	if err := s.AppendEntry(context.Background(), e); err != nil {
		t.Fatalf("AppendEntry() error: %v", err)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should default to now")
	}
}

func TestCloseRejectsWrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	err := s.AppendEntry(context.Background(), entry("main1", "late", time.Now()))
	if err != ErrStoreClosed {
		t.Errorf("AppendEntry() after close = %v, want ErrStoreClosed", err)
	}
}
