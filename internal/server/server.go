package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskvault/go/internal/logger"
)

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
	port       int
}

// New creates a new Server instance
func New(handler http.Handler, port int, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log:  log,
		port: port,
	}
}

// Start begins listening and serving requests (blocks until server stops)
func (s *Server) Start() error {
	s.log.Info("server starting", map[string]any{"port": s.port})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server with the given context
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles OS signals for graceful shutdown
func (s *Server) ListenAndServeWithGracefulShutdown() {
	done := make(chan bool, 1)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			s.log.Error("server shutdown error", map[string]any{"error": err.Error()})
		}

		done <- true
	}()

	s.log.Info("taskvault API running", map[string]any{"addr": fmt.Sprintf("http://localhost:%d", s.port)})

	if err := s.Start(); err != nil {
		s.log.Fatal("server error", map[string]any{"error": err.Error()})
	}

	<-done
	s.log.Info("server stopped", nil)
}
