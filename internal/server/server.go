// Package server runs the HTTP API under a tomb so the serve loop and its graceful
// shutdown die together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

type Server struct {
	t               tomb.Tomb
	httpServer      *http.Server
	addr            string
	listener        net.Listener
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

func New(addr string, handler http.Handler, shutdownTimeout time.Duration, logger zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logging.For(logger, "server"),
	}
}

// Start binds the address and serves in the background until Stop or a serve failure.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	s.listener = ln

	s.t.Go(func() error {
		s.t.Go(s.shutdownOnDying)

		s.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpServer.Serve: %w", err)
	})

	return nil
}

func (s *Server) shutdownOnDying() error {
	<-s.t.Dying()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info().Dur("timeout", s.shutdownTimeout).Msg("http server shutting down")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Dead() <-chan struct{} {
	return s.t.Dead()
}

// Stop shuts the server down gracefully and returns the first failure, if any.
func (s *Server) Stop() error {
	s.t.Kill(nil)
	return s.t.Wait()
}

// Run starts the server and blocks until ctx is done or the server fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-s.t.Dying():
	}

	err := s.Stop()
	if err == nil {
		s.logger.Info().Msg("http server stopped")
	}
	return err
}
