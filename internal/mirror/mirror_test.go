package mirror

import (
	"log/slog"
	"testing"
)

func newTestMirror() *Mirror {
	return New(slog.Default())
}

const boardPayloadA = `{"info":{"boardId":"board-a","boardToken":"tok-a"},"state":{"follow":0,"grantUsers":[]}}`
const boardPayloadB = `{"info":{"boardId":"board-b","boardToken":"tok-b"},"state":{"follow":1,"grantUsers":["u1"]}}`

func TestBoardWriteOnce(t *testing.T) {
	m := newTestMirror()

	snap, applied := m.ObserveBoard(boardPayloadA, "u1")
	if !applied || snap == nil {
		t.Fatal("first board payload should be applied")
	}
	if snap.BoardID != "board-a" {
		t.Errorf("BoardID = %s, want board-a", snap.BoardID)
	}

	// A second, different payload must be ignored while the same
	// sub-session is alive.
	snap, applied = m.ObserveBoard(boardPayloadB, "u1")
	if applied {
		t.Error("second board payload should not be applied")
	}
	if snap.BoardID != "board-a" {
		t.Errorf("cached BoardID = %s, want board-a", snap.BoardID)
	}
}

func TestBoardResetAllowsNewSnapshot(t *testing.T) {
	m := newTestMirror()

	if _, applied := m.ObserveBoard(boardPayloadA, "u1"); !applied {
		t.Fatal("first payload should apply")
	}
	m.Reset()
	snap, applied := m.ObserveBoard(boardPayloadB, "u1")
	if !applied || snap.BoardID != "board-b" {
		t.Errorf("after Reset a new payload should apply, got %+v applied=%v", snap, applied)
	}
}

func TestBoardMalformedDiscarded(t *testing.T) {
	m := newTestMirror()

	if snap, applied := m.ObserveBoard(`{broken`, "u1"); applied || snap != nil {
		t.Error("malformed payload should be discarded")
	}
	if m.Board() != nil {
		t.Error("cache should stay empty after a malformed payload")
	}

	// A valid payload afterwards still applies.
	if _, applied := m.ObserveBoard(boardPayloadA, "u1"); !applied {
		t.Error("valid payload after malformed one should apply")
	}
}

func TestRecordEndFiresOnce(t *testing.T) {
	m := newTestMirror()

	if _, ended := m.ObserveRecord(`{"state":1,"recordId":"r1"}`); ended {
		t.Error("RECORDING should not report ended")
	}

	_, ended := m.ObserveRecord(`{"state":2,"recordId":"r1","recordingUrl":"https://replay/r1"}`)
	if !ended {
		t.Fatal("transition into END should report ended")
	}

	// Duplicate END observations must not re-fire.
	for i := 0; i < 3; i++ {
		if _, ended := m.ObserveRecord(`{"state":2,"recordId":"r1","recordingUrl":"https://replay/r1"}`); ended {
			t.Fatalf("duplicate END observation %d should not report ended", i+1)
		}
	}
}

func TestRecordEdgeTriggered(t *testing.T) {
	m := newTestMirror()

	m.ObserveRecord(`{"state":1,"recordId":"r1"}`)
	snap := m.Record()
	if snap == nil {
		t.Fatal("record cache should be set")
	}

	// Same state: cache not replaced.
	m.ObserveRecord(`{"state":1,"recordId":"r2"}`)
	if m.Record().RecordID != "r1" {
		t.Error("cache should not be replaced when state is unchanged")
	}

	// State change: cache replaced.
	m.ObserveRecord(`{"state":2,"recordId":"r2"}`)
	if m.Record().RecordID != "r2" {
		t.Error("cache should be replaced on state change")
	}
}

func TestRecordMalformedDiscarded(t *testing.T) {
	m := newTestMirror()

	m.ObserveRecord(`{"state":1}`)
	if snap, ended := m.ObserveRecord(`garbage`); snap != nil || ended {
		t.Error("malformed record payload should be discarded")
	}
	if m.Record() == nil || m.Record().State != 1 {
		t.Error("prior record cache should survive a malformed payload")
	}
}
