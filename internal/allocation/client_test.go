package allocation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"breakout/pkg/types"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "app1", nil, slog.Default()); err != ErrEmptyBaseURL {
		t.Errorf("NewClient with empty base url = %v, want ErrEmptyBaseURL", err)
	}
	if _, err := NewClient("http://x", "", nil, slog.Default()); err != ErrEmptyAppID {
		t.Errorf("NewClient with empty app id = %v, want ErrEmptyAppID", err)
	}
}

func TestAllocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		wantPath := "/v1/apps/app1/rooms/main1/groups/allocate"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		if r.Header.Get("x-request-id") == "" {
			t.Error("request id header missing")
		}
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"roomUuid":"sub1","roomName":"Group 1"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "app1", nil, slog.Default())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	room, err := c.Allocate(context.Background(), "main1", "u1")
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if room.UUID != "sub1" || room.Name != "Group 1" || room.Kind != types.RoomBreakout {
		t.Errorf("room = %+v, want sub1/Group 1/breakout", room)
	}
}

func TestAllocateServiceRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":30403100,"msg":"no group configured","data":null}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "app1", nil, slog.Default())
	_, err := c.Allocate(context.Background(), "main1", "u1")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Allocate() = %v, want *StatusError", err)
	}
	if se.StatusCode() != 30403100 {
		t.Errorf("StatusCode() = %d, want 30403100", se.StatusCode())
	}
}

func TestAllocateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "app1", nil, slog.Default())
	_, err := c.Allocate(context.Background(), "main1", "u1")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Allocate() = %v, want *StatusError", err)
	}
	if se.StatusCode() != http.StatusBadGateway {
		t.Errorf("StatusCode() = %d, want 502", se.StatusCode())
	}
}

func TestAllocateUnusableRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"roomUuid":"","roomName":""}}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "app1", nil, slog.Default())
	if _, err := c.Allocate(context.Background(), "main1", "u1"); !errors.Is(err, types.ErrInvalidRoomUUID) {
		t.Errorf("Allocate() = %v, want ErrInvalidRoomUUID", err)
	}
}

func TestFetchBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/v1/apps/app1/rooms/sub1/board"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"boardId":"b1","boardToken":"t1"}}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "app1", nil, slog.Default())
	board, err := c.FetchBoard(context.Background(), "sub1")
	if err != nil {
		t.Fatalf("FetchBoard() error: %v", err)
	}
	if board.BoardID != "b1" || board.BoardToken != "t1" {
		t.Errorf("board = %+v, want b1/t1", board)
	}
}

func TestFetchBoardMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"ok","data":{}}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "app1", nil, slog.Default())
	if _, err := c.FetchBoard(context.Background(), "sub1"); !errors.Is(err, ErrNoBoardProvided) {
		t.Errorf("FetchBoard() = %v, want ErrNoBoardProvided", err)
	}
}
