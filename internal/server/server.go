// Package server exposes a running session over HTTP: JSON status
// endpoints plus a websocket that streams rendered frames to a browser
// preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/audiolibrelab/micloop/internal/config"
	"github.com/audiolibrelab/micloop/internal/core"
	"github.com/audiolibrelab/micloop/internal/session"
)

// Server serves status and frame previews for one session.
type Server struct {
	cfg  *config.Config
	sess *session.Session
	port string
	log  *slog.Logger
}

// StatusResponse is the JSON shape of the status endpoint.
type StatusResponse struct {
	State   string        `json:"state"`
	Session *session.Info `json:"session,omitempty"`
}

// InfoResponse is the JSON shape of the info endpoint.
type InfoResponse struct {
	System         core.SystemInfo `json:"system"`
	AV             core.AVInfo     `json:"av"`
	Region         string          `json:"region"`
	SupportedRates []int           `json:"supported_rates"`
}

// New creates a server for the given session.
func New(cfg *config.Config, sess *session.Session, port string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:  cfg,
		sess: sess,
		port: port,
		log:  logger,
	}
}

// Start runs the HTTP server until the listener fails or ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/info", s.handleInfo)
	mux.HandleFunc("/ws/frames", s.handleFrames)

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("server shutdown failed", "error", err)
		}
	}()

	s.log.Info("preview server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state, info := s.sess.Status()
	writeJSON(w, StatusResponse{
		State:   state.String(),
		Session: info,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cfg)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, InfoResponse{
		System:         core.GetSystemInfo(),
		AV:             s.sess.AVInfo(),
		Region:         s.sess.Region().String(),
		SupportedRates: config.SupportedRates,
	})
}

// handleFrames upgrades to a websocket and streams each rendered frame
// as a binary message of little-endian XRGB8888 pixels.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	frames := s.sess.Video().Subscribe()
	go func() {
		defer conn.Close()
		defer s.sess.Video().Unsubscribe(frames)

		for frame := range frames {
			if err := wsutil.WriteServerBinary(conn, frame); err != nil {
				s.log.Debug("frame subscriber disconnected", "error", err)
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}
