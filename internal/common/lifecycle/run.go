package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds the whole reverse-order stop after a signal.
const shutdownTimeout = 35 * time.Second

// Run supervises services until SIGINT/SIGTERM or a service failure.
//
//	lifecycle.Run(ctx, subscriber, seeder, httpService)
func Run(ctx context.Context, services ...Service) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- NewSupervisor(services...).Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Service failed, shut down", "error", err)
		}
		return err
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	select {
	case err := <-errCh:
		return err
	case <-time.After(shutdownTimeout):
		return errors.New("shutdown timed out")
	}
}

// HTTPService serves an http.Server as a Service.
type HTTPService struct {
	name    string
	server  *http.Server
	serving chan struct{}
}

// NewHTTPService creates a Service from an http.Server.
func NewHTTPService(name string, server *http.Server) *HTTPService {
	return &HTTPService{name: name, server: server, serving: make(chan struct{})}
}

func (s *HTTPService) Name() string { return s.name }

// Start binds the listener first so an address in use fails startup.
func (s *HTTPService) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	slog.Info("HTTP server listening", "addr", ln.Addr().String())
	close(s.serving)

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return nil
	}
}

func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Health fails until the listener is bound.
func (s *HTTPService) Health() error {
	select {
	case <-s.serving:
		return nil
	default:
		return errors.New("not listening")
	}
}
