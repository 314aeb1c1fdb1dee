package lifecycle

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func blockingService(name string, rec *recorder) *ServiceFunc {
	return NewServiceFunc(name,
		func(ctx context.Context) error {
			rec.add("start " + name)
			<-ctx.Done()
			return nil
		},
		func(context.Context) error {
			rec.add("stop " + name)
			return nil
		},
	)
}

// === Supervisor ===

func TestSupervisorStopsInReverseOrder(t *testing.T) {
	rec := &recorder{}
	sup := NewSupervisor(blockingService("a", rec), blockingService("b", rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"start a", "start b", "stop b", "stop a"}
	got := rec.list()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSupervisorStartupFailure(t *testing.T) {
	rec := &recorder{}
	broken := NewServiceFunc("broken",
		func(context.Context) error { return errors.New("port in use") },
		func(context.Context) error { return nil },
	)
	sup := NewSupervisor(blockingService("a", rec), broken)

	err := sup.Run(context.Background())
	if err == nil {
		t.Fatal("expected a startup error")
	}
	got := rec.list()
	if len(got) != 2 || got[1] != "stop a" {
		t.Errorf("started services must be stopped on failure, got %v", got)
	}
}

func TestSupervisorHealth(t *testing.T) {
	sick := NewServiceFunc("sick", nil, nil).WithHealth(func() error { return errors.New("down") })
	if err := NewSupervisor(sick).Health(); err == nil {
		t.Error("expected unhealthy supervisor")
	}
}

func TestSupervisorStopsOnRuntimeFailure(t *testing.T) {
	rec := &recorder{}
	flaky := NewServiceFunc("flaky",
		func(context.Context) error {
			time.Sleep(300 * time.Millisecond)
			return errors.New("consumer lost")
		}, nil)
	sup := NewSupervisor(blockingService("a", rec), flaky)

	done := make(chan error, 1)
	go func() { done <- sup.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected the runtime error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop after a service failed")
	}
	if got := rec.list(); len(got) != 2 || got[1] != "stop a" {
		t.Errorf("events = %v", got)
	}
}

// === HTTPService ===

func TestHTTPServiceAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	svc := NewHTTPService("http", &http.Server{Addr: ln.Addr().String()})
	if err := svc.Start(context.Background()); err == nil {
		t.Fatal("expected bind failure")
	}
	if svc.Health() == nil {
		t.Error("unbound service should be unhealthy")
	}
}

func TestHTTPServiceServesUntilCancelled(t *testing.T) {
	svc := NewHTTPService("http", &http.Server{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for svc.Health() != nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := svc.Health(); err != nil {
		t.Fatalf("Health: %v", err)
	}

	cancel()
	if err := svc.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start returned %v", err)
	}
}

// === JobService ===

func TestJobServiceRunsOnceAfterGate(t *testing.T) {
	gate := make(chan struct{})
	runs := 0
	job := NewJobService("seed",
		func(context.Context) error { runs++; return nil },
		func(ctx context.Context) error {
			select {
			case <-gate:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if job.Done() {
		t.Fatal("job must wait for the gate")
	}
	close(gate)

	deadline := time.Now().Add(time.Second)
	for !job.Done() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !job.Done() || runs != 1 {
		t.Fatalf("job should run exactly once, done=%v runs=%d", job.Done(), runs)
	}

	cancel()
	<-done
}

func TestJobServiceReportsFailure(t *testing.T) {
	job := NewJobService("seed", func(context.Context) error { return errors.New("boom") }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !job.Done() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := job.Health(); err == nil {
		t.Error("a failed job should be unhealthy")
	}
	cancel()
	<-done
}
