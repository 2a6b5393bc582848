package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/genui/genui/internal/config"
	"github.com/genui/genui/internal/security"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg   *config.Config
	http  *http.Server
	audit *security.AuditLogger // held for graceful close
}

func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	router, audit, err := s.setupRoutes()
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}
	s.audit = audit

	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ModelTimeout() + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		// In-flight chats may run for the whole model timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ModelTimeout()+5*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)
		s.Close()
		return err
	case err := <-errCh:
		s.Close()
		return err
	}
}

// Close drains pending audit writes and closes the audit sinks.
func (s *Server) Close() {
	if err := s.audit.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing audit sinks")
	} else {
		log.Info().Msg("audit sinks closed")
	}
}
