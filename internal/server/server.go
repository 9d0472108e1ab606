// Package server hosts the HTTP edge of the game service.
//
// Requests and responses are JSON. Client mistakes map to 400 with a string
// body describing the problem; an exhausted update loop is the one 500 the
// service produces on purpose.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Config defines the inputs for the game server.
type Config struct {
	Addr string
}

// Server hosts the game HTTP server.
type Server struct {
	addr       string
	httpServer *http.Server
}

// NewServer builds a configured game server around the service.
func NewServer(config Config, service Service) (*Server, error) {
	addr := strings.TrimSpace(config.Addr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	if service == nil {
		return nil, errors.New("service is required")
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(service),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{addr: addr, httpServer: httpServer}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("game server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("game server listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
