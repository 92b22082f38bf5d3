package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/louisbranch/adp-docs/internal/platform/timeouts"
	"github.com/rs/zerolog"
)

// Server serves one export directory over HTTP.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer binds addr immediately so a port conflict fails before the
// first build is served.
func NewServer(addr string, dir string, logger zerolog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           NewHandler(dir, logger),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger: logger,
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("preview server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("event", "preview.listening").Str("addr", s.Addr()).Msg("preview server listening")
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
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
