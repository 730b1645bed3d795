package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"breakout/internal/app"
	"breakout/internal/config"
)

var (
	cfgFile  string
	roomUUID string
	roomName string
	userUUID string
	userName string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "breakout",
	Short: "Join a classroom and its assigned breakout group",
	Long: `breakout joins the main classroom, asks the classroom service which
breakout group the user belongs to, joins that group, and keeps a
merged view of both rooms until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().StringVar(&roomUUID, "room", "", "main room uuid (overrides config)")
	rootCmd.Flags().StringVar(&roomName, "room-name", "", "main room name (overrides config)")
	rootCmd.Flags().StringVar(&userUUID, "user", "", "user uuid (overrides config)")
	rootCmd.Flags().StringVar(&userName, "user-name", "", "user name (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if roomUUID != "" {
		cfg.App.RoomUUID = roomUUID
	}
	if roomName != "" {
		cfg.App.RoomName = roomName
	}
	if userUUID != "" {
		cfg.App.UserUUID = userUUID
	}
	if userName != "" {
		cfg.App.UserName = userName
	}

	log := newLogger()
	application, err := app.NewApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := application.Start(runCtx); err != nil {
		return err
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalCh
	log.Info("shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return application.Stop(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
