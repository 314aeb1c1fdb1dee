package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// JobService runs a one-shot job once the optional gate opens, then idles
// until shutdown. The gate is typically leader.Elector.AwaitLeadership so
// only one instance runs the job.
type JobService struct {
	name string
	job  func(ctx context.Context) error
	gate func(ctx context.Context) error

	mu   sync.RWMutex
	err  error
	done bool
}

// NewJobService creates a JobService. gate may be nil.
func NewJobService(name string, job, gate func(ctx context.Context) error) *JobService {
	return &JobService{name: name, job: job, gate: gate}
}

func (s *JobService) Name() string { return s.name }

// Start waits for the gate, runs the job once and blocks until ctx ends.
// A job failure is kept for Health and does not stop other services.
func (s *JobService) Start(ctx context.Context) error {
	if s.gate != nil {
		if err := s.gate(ctx); err != nil {
			<-ctx.Done()
			return nil
		}
	}

	err := s.job(ctx)
	if err != nil {
		slog.Error("Job failed", "job", s.name, "error", err)
	} else {
		slog.Info("Job completed", "job", s.name)
	}

	s.mu.Lock()
	s.err, s.done = err, true
	s.mu.Unlock()

	<-ctx.Done()
	return nil
}

func (s *JobService) Stop(context.Context) error { return nil }

// Health reports the job's error, if it ran and failed.
func (s *JobService) Health() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return fmt.Errorf("job %s failed: %w", s.name, s.err)
	}
	return nil
}

// Done reports whether the job has run.
func (s *JobService) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}
