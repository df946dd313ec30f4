// Package server exposes a small JSON API over one board, for a web client
// to render. It serves read-only snapshots plus the documented mutation
// operations; nothing here touches task state directly.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/taskboard/taskboard/board"
	"github.com/taskboard/taskboard/types"
)

type Server struct {
	board   *board.Board
	origins map[string]struct{}
	server  *http.Server
}

// New builds a server over the given board.
func New(b *board.Board, cfg types.ServerConfig) *Server {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}

	s := &Server{
		board:   b,
		origins: origins,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.registerRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Start runs the server on its own goroutine, reporting a failed listen on
// errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
