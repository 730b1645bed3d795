// Package app wires the components together and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"breakout/internal/allocation"
	"breakout/internal/config"
	"breakout/internal/coordinator"
	"breakout/internal/hub"
	"breakout/internal/identity"
	"breakout/internal/mirror"
	"breakout/internal/provider"
	"breakout/internal/router"
	"breakout/internal/transcript"
	"breakout/internal/view"
	"breakout/pkg/types"
)

// Application coordinates all components for one classroom entry.
// Initialization follows dependency order:
// Credential → Transcript → Mirror → Allocation → Provider → Coordinator → Router → Hub.
type Application struct {
	config      *config.Config
	log         *slog.Logger
	credential  *identity.Credential
	store       *transcript.Store
	coordinator *coordinator.Coordinator
	eventHub    *hub.Hub
}

// NewApplication builds the component graph. The returned application
// is not joined until Start.
func NewApplication(cfg *config.Config, log *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	credential := identity.NewCredential(log)

	store, err := transcript.NewStore(cfg.Transcript.Path, log)
	if err != nil {
		return nil, fmt.Errorf("initializing transcript store: %w", err)
	}

	roomMirror := mirror.New(log)

	allocClient, err := allocation.NewClient(cfg.Allocation.BaseURL, cfg.App.ID,
		credential.Transport(nil), log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("initializing allocation client: %w", err)
	}

	dialer := provider.NewDialer(cfg.Provider.URL, log,
		provider.WithJoinTimeout(cfg.Provider.JoinTimeout),
		provider.WithEventBuffer(cfg.Provider.EventBuffer),
	)

	mainRoom := types.RoomInfo{
		UUID: cfg.App.RoomUUID,
		Name: cfg.App.RoomName,
		Kind: types.RoomMain,
	}
	coord := coordinator.New(dialer, allocClient, credential, roomMirror,
		mainRoom, cfg.Chat.RateLimitPerMinute, log)

	sink := view.NewLogSink(log)
	eventRouter := router.New(sink, roomMirror, store, allocClient, log)

	eventHub := hub.New(eventRouter, coord, log)
	coord.BindEvents(eventHub)

	return &Application{
		config:      cfg,
		log:         log,
		credential:  credential,
		store:       store,
		coordinator: coord,
		eventHub:    eventHub,
	}, nil
}

// Start launches event dispatch and runs the join sequence. On a
// failed join nothing stays running.
func (app *Application) Start(ctx context.Context) error {
	if err := app.eventHub.Start(ctx); err != nil {
		return fmt.Errorf("starting event hub: %w", err)
	}

	id := types.Identity{
		UserUUID: app.config.App.UserUUID,
		UserName: app.config.App.UserName,
	}
	if err := app.coordinator.Join(ctx, id); err != nil {
		app.eventHub.Stop()
		return fmt.Errorf("joining classroom: %w", err)
	}

	app.log.Info("classroom entry complete",
		"mainRoomUuid", app.config.App.RoomUUID,
		"breakoutRoomUuid", app.coordinator.ActiveBreakoutUUID())
	return nil
}

// Stop leaves both rooms and shuts everything down in reverse
// dependency order: Coordinator → Hub → Transcript.
func (app *Application) Stop(ctx context.Context) error {
	if err := app.coordinator.Leave(); err != nil {
		app.log.Warn("leave error during shutdown", "error", err)
	}
	if err := app.eventHub.Stop(); err != nil && err != hub.ErrHubNotRunning {
		app.log.Warn("hub shutdown error", "error", err)
	}
	if err := app.store.Close(); err != nil {
		app.log.Warn("transcript shutdown error", "error", err)
	}
	app.log.Info("shutdown complete")
	return nil
}

// SendChat publishes a chat message from the local user.
func (app *Application) SendChat(ctx context.Context, body string) error {
	return app.coordinator.SendChat(ctx, body)
}
