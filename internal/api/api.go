// Package api provides the administrative HTTP API: CRUD for contacts,
// policy groups and maintenance windows, the message-log view, and manual
// notifications. Routing-data mutations become visible to the engine on its
// next poll cycle; nothing is pushed live.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/good-yellow-bee/alertrelay/internal/notifier"
	"github.com/good-yellow-bee/alertrelay/internal/storage"
)

// Config holds API server settings.
type Config struct {
	Address   string        // listen address
	JWTSecret string        // HS256 shared secret
	TokenTTL  time.Duration // lifetime of minted tokens
	Verbose   bool          // request logging
}

// Server is the admin API server.
type Server struct {
	config     Config
	storage    storage.Storage
	dispatcher *notifier.Dispatcher
	httpServer *http.Server
}

// NewServer creates the admin API server.
func NewServer(config Config, store storage.Storage, dispatcher *notifier.Dispatcher) *Server {
	s := &Server{
		config:     config,
		storage:    store,
		dispatcher: dispatcher,
	}
	s.httpServer = &http.Server{
		Addr:         config.Address,
		Handler:      s.setupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("admin api listening on %s", s.config.Address)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("admin api: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("shutting down admin api")
	return s.httpServer.Shutdown(ctx)
}
