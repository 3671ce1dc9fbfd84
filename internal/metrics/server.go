package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"codeberg.org/snonux/wikifreq/internal/logger"
)

// Server serves /metrics in the background
type Server struct {
	server   *http.Server
	listener net.Listener
}

// StartServer listens on addr (e.g. ":9090") and serves the metrics of m
func StartServer(addr string, m *Metrics) (*Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><h1>wikifreq</h1><p><a href="/metrics">/metrics</a></p></body></html>`)
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		server: &http.Server{
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		listener: listener,
	}

	log := logger.WithComponent("metrics")
	go func() {
		log.Info("metrics server listening", "addr", listener.Addr().String())
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()

	return s, nil
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
