package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/verifield/verifield"
	"github.com/verifield/verifield/server"
)

var listenAddr string

// serveCmd runs the local HTTP surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over local HTTP",
	Long: `Start the status monitor and serve the session on --listen.

Routes:
  GET  /status, /status/stream (server-sent events)
  POST /wallet/connect, /wallet/switch, /wallet/disconnect, /wallet/refresh
  GET  /wallet, /notifications, /chains, /health, /metrics
  POST /mint`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, config, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		return err
	}

	addr := config.ListenAddr
	if cmd.Flags().Changed("listen") {
		addr = listenAddr
	}
	return server.New(app, app.Logger(), verifield.Version).ListenAndServe(ctx, addr)
}
