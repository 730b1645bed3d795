// Package allocation talks to the classroom service that assigns users
// to breakout groups and provisions whiteboards.
package allocation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"breakout/pkg/types"
)

const (
	codeOK             = 0
	defaultHTTPTimeout = 10 * time.Second
)

// Client implements group allocation and board lookup against the
// classroom service REST API.
type Client struct {
	baseURL string
	appID   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates an allocation client. transport may be nil; pass a
// credential round-tripper to authenticate requests.
func NewClient(baseURL, appID string, transport http.RoundTripper, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if appID == "" {
		return nil, ErrEmptyAppID
	}
	return &Client{
		baseURL: baseURL,
		appID:   appID,
		http: &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: transport,
		},
		log: log.With("component", "allocation"),
	}, nil
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type allocateRequest struct {
	UserUUID string `json:"userUuid"`
}

type allocateData struct {
	RoomUUID string `json:"roomUuid"`
	RoomName string `json:"roomName"`
}

type boardData struct {
	BoardID    string `json:"boardId"`
	BoardToken string `json:"boardToken"`
}

// Allocate asks the service which breakout group the user belongs to
// under the given main room. The returned room is join-ready.
func (c *Client) Allocate(ctx context.Context, mainRoomUUID, userUUID string) (types.RoomInfo, error) {
	url := fmt.Sprintf("%s/v1/apps/%s/rooms/%s/groups/allocate", c.baseURL, c.appID, mainRoomUUID)

	body, err := json.Marshal(allocateRequest{UserUUID: userUUID})
	if err != nil {
		return types.RoomInfo{}, fmt.Errorf("encoding allocate request: %w", err)
	}

	var data allocateData
	if err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body), &data); err != nil {
		return types.RoomInfo{}, err
	}

	room := types.RoomInfo{UUID: data.RoomUUID, Name: data.RoomName, Kind: types.RoomBreakout}
	if err := room.Validate(); err != nil {
		return types.RoomInfo{}, fmt.Errorf("allocation returned unusable room: %w", err)
	}
	c.log.Info("breakout group allocated", "mainRoomUuid", mainRoomUUID,
		"roomUuid", room.UUID, "roomName", room.Name)
	return room, nil
}

// FetchBoard retrieves the whiteboard credentials for a room. Used as
// a fallback when the board never arrives as a room property.
func (c *Client) FetchBoard(ctx context.Context, roomUUID string) (types.BoardSnapshot, error) {
	url := fmt.Sprintf("%s/v1/apps/%s/rooms/%s/board", c.baseURL, c.appID, roomUUID)

	var data boardData
	if err := c.do(ctx, http.MethodGet, url, nil, &data); err != nil {
		return types.BoardSnapshot{}, err
	}
	if data.BoardID == "" || data.BoardToken == "" {
		return types.BoardSnapshot{}, ErrNoBoardProvided
	}
	return types.BoardSnapshot{BoardID: data.BoardID, BoardToken: data.BoardToken}, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-request-id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling classroom service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding response envelope: %w", err)
	}
	if env.Code != codeOK {
		return &StatusError{Code: env.Code, Msg: env.Msg}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
