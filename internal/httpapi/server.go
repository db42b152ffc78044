package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps an http.Server the same way the gRPC builder wraps its server.
type Server struct {
	srv      *http.Server
	listener net.Listener
	logger   *zap.Logger
}

type ServerOption func(*Server)

// WithHTTPListener serves on an existing listener instead of opening addr.
func WithHTTPListener(lis net.Listener) ServerOption {
	return func(s *Server) { s.listener = lis }
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.Named("http-server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	lis := s.listener
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", s.srv.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
		}
	}

	s.logger.Info("http server listening", zap.String("address", lis.Addr().String()))
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.srv.Shutdown(ctx)
}
