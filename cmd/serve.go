package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/audiolibrelab/micloop/internal/server"
	"github.com/audiolibrelab/micloop/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve [input-file]",
	Short: "Run a session with a live browser preview",
	Long: `Run a paced record/playback session and serve it over HTTP:
JSON status under /api and a websocket at /ws/frames streaming each
rendered frame, so the visualization can be watched live in a browser.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		// A preview only makes sense paced at the real frame rate.
		cfg.Session.Realtime = true

		sess, err := session.New(cfg, args[0], slog.Default())
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			if err := sess.Run(ctx); err != nil {
				slog.Error("session failed", "error", err)
			}
		}()

		srv := server.New(cfg, sess, port, slog.Default())
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "port for the preview server")
}
