// Package lifecycle runs the long-lived parts of a binary (HTTP API, event
// subscriber, leader elector, startup jobs) under one supervisor with
// ordered startup and reverse-order shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service is a supervised component.
type Service interface {
	Name() string

	// Start runs the service and blocks until ctx is cancelled. An error
	// return, at any time, shuts the whole supervisor down.
	Start(ctx context.Context) error

	// Stop releases resources; ctx bounds how long it may take.
	Stop(ctx context.Context) error

	// Health returns nil while the service is healthy.
	Health() error
}

const (
	startGrace  = 100 * time.Millisecond
	stopTimeout = 30 * time.Second
)

// Supervisor runs services together.
type Supervisor struct {
	services []Service
	running  atomic.Bool
}

// NewSupervisor creates a supervisor for the given services.
func NewSupervisor(services ...Service) *Supervisor {
	return &Supervisor{services: services}
}

// Run starts the services in order and blocks until ctx is cancelled or a
// service fails. Started services are then stopped in reverse order. The
// first service error is returned.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("supervisor already running")
	}
	defer s.running.Store(false)

	g, gctx := errgroup.WithContext(ctx)
	var started []Service

	for _, svc := range s.services {
		slog.Info("Starting service", "service", svc.Name())

		exited := make(chan struct{})
		g.Go(func() error {
			defer close(exited)
			if err := svc.Start(gctx); err != nil {
				return fmt.Errorf("service %s: %w", svc.Name(), err)
			}
			return nil
		})
		started = append(started, svc)

		// A service that fails straight away aborts the remaining startup.
		select {
		case <-exited:
		case <-time.After(startGrace):
		}
		if gctx.Err() != nil {
			break
		}
	}

	<-gctx.Done()
	slog.Info("Stopping services")
	stopAll(started)
	return g.Wait()
}

func stopAll(services []Service) {
	for i := len(services) - 1; i >= 0; i-- {
		svc := services[i]
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		if err := svc.Stop(ctx); err != nil {
			slog.Error("Service stop error", "service", svc.Name(), "error", err)
		} else {
			slog.Info("Service stopped", "service", svc.Name())
		}
		cancel()
	}
}

// Health returns the first unhealthy service's error.
func (s *Supervisor) Health() error {
	var errs []error
	for _, svc := range s.services {
		if err := svc.Health(); err != nil {
			errs = append(errs, fmt.Errorf("service %s unhealthy: %w", svc.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ServiceFunc adapts plain functions to Service.
type ServiceFunc struct {
	name     string
	start    func(ctx context.Context) error
	stop     func(ctx context.Context) error
	healthFn func() error
}

// NewServiceFunc creates a Service from functions. stop may be nil.
func NewServiceFunc(name string, start, stop func(ctx context.Context) error) *ServiceFunc {
	return &ServiceFunc{name: name, start: start, stop: stop}
}

// WithHealth sets the health probe.
func (s *ServiceFunc) WithHealth(fn func() error) *ServiceFunc {
	s.healthFn = fn
	return s
}

func (s *ServiceFunc) Name() string                    { return s.name }
func (s *ServiceFunc) Start(ctx context.Context) error { return s.start(ctx) }

func (s *ServiceFunc) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	return s.stop(ctx)
}

func (s *ServiceFunc) Health() error {
	if s.healthFn == nil {
		return nil
	}
	return s.healthFn()
}
