package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codemeet/collab-server/internal/config"
	"github.com/codemeet/collab-server/internal/logging"
	"github.com/codemeet/collab-server/internal/room"
	"github.com/codemeet/collab-server/internal/server"
	"github.com/codemeet/collab-server/internal/turn"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "collab-server",
	Short: "Real-time collaboration room server",
	Long: `collab-server multiplexes websocket connections into interview rooms:
it assigns roles, relays WebRTC signaling and shared-document sync
messages, and fans room events out to every participant.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to YAML config file")
}

func run(cmd *cobra.Command, args []string) error {
	logging.Init()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// Create the hub and start its event loop. Every room mutation from
	// here on happens on that one goroutine.
	hub := room.NewHub()
	go hub.Run()

	router := server.NewRouter(hub)

	var turnServer *turn.Server
	if cfg.Turn.Enabled {
		turnServer, err = turn.NewServer(cfg.Turn)
		if err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for the exit signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("http shutdown error", "err", err)
	}
	if turnServer != nil {
		if err := turnServer.Close(); err != nil {
			slog.Error("turn shutdown error", "err", err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
