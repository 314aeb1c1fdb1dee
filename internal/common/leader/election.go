package leader

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds configuration for leader election
type Config struct {
	// InstanceID uniquely identifies this instance (defaults to hostname)
	InstanceID string

	// TTL is how long the lock is valid before expiring (default: 30s)
	TTL time.Duration

	// RefreshInterval is how often to refresh the lock while primary (default: 10s)
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	instanceID, _ := os.Hostname()
	if instanceID == "" {
		instanceID = "instance-" + time.Now().Format("20060102150405")
	}

	return Config{
		InstanceID:      instanceID,
		TTL:             30 * time.Second,
		RefreshInterval: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InstanceID == "" {
		c.InstanceID = d.InstanceID
	}
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.RefreshInterval <= 0 || c.RefreshInterval >= c.TTL {
		c.RefreshInterval = c.TTL / 3
	}
	return c
}

// Elector keeps trying to hold a Lock and reports whether this instance is
// the leader. It implements lifecycle.Service.
type Elector struct {
	lock   Lock
	config Config
	logger *slog.Logger

	isPrimary atomic.Bool

	mu               sync.Mutex
	leaderCh         chan struct{} // closed while primary
	onBecomeLeader   func()
	onLoseLeadership func()
}

// NewElector creates an elector over lock.
func NewElector(lock Lock, config Config, logger *slog.Logger) *Elector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Elector{
		lock:     lock,
		config:   config.withDefaults(),
		logger:   logger,
		leaderCh: make(chan struct{}),
	}
}

// OnBecomeLeader sets a callback for when this instance becomes leader
func (e *Elector) OnBecomeLeader(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBecomeLeader = fn
}

// OnLoseLeadership sets a callback for when this instance loses leadership
func (e *Elector) OnLoseLeadership(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLoseLeadership = fn
}

func (e *Elector) Name() string { return "leader-election" }

// Start runs the election loop until ctx is cancelled, then releases the lock.
func (e *Elector) Start(ctx context.Context) error {
	e.logger.Info("Leader election started",
		"instanceId", e.config.InstanceID,
		"lock", e.lock.Name(),
		"ttl", e.config.TTL,
		"refreshInterval", e.config.RefreshInterval)

	ticker := time.NewTicker(e.config.RefreshInterval)
	defer ticker.Stop()

	e.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			e.release(releaseCtx)
			cancel()
			return nil
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// Stop releases the lock if held.
func (e *Elector) Stop(ctx context.Context) error {
	e.release(ctx)
	return nil
}

// Health always reports healthy; not being leader is a normal state.
func (e *Elector) Health() error { return nil }

// IsPrimary returns true if this instance is currently the leader
func (e *Elector) IsPrimary() bool {
	return e.isPrimary.Load()
}

// InstanceID returns the instance ID of this elector
func (e *Elector) InstanceID() string {
	return e.config.InstanceID
}

// CurrentLeader returns the instance id holding the lock, or "".
func (e *Elector) CurrentLeader(ctx context.Context) (string, error) {
	return e.lock.Holder(ctx)
}

// AwaitLeadership blocks until this instance is leader or ctx ends.
func (e *Elector) AwaitLeadership(ctx context.Context) error {
	e.mu.Lock()
	ch := e.leaderCh
	e.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick refreshes a held lock or tries to take a free one.
func (e *Elector) tick(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if e.isPrimary.Load() {
		ok, err := e.lock.Refresh(opCtx, e.config.InstanceID, e.config.TTL)
		if err != nil {
			e.logger.Error("Failed to refresh leader lock", "lock", e.lock.Name(), "error", err)
		}
		if ok {
			return
		}
		e.logger.Warn("Lost leadership", "instanceId", e.config.InstanceID, "lock", e.lock.Name())
		e.demote()
	}

	ok, err := e.lock.Acquire(opCtx, e.config.InstanceID, e.config.TTL)
	if err != nil {
		e.logger.Error("Failed to acquire leader lock", "lock", e.lock.Name(), "error", err)
		return
	}
	if ok {
		e.logger.Info("Acquired leadership", "instanceId", e.config.InstanceID, "lock", e.lock.Name())
		e.promote()
	}
}

func (e *Elector) promote() {
	e.mu.Lock()
	if e.isPrimary.Swap(true) {
		e.mu.Unlock()
		return
	}
	close(e.leaderCh)
	fn := e.onBecomeLeader
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (e *Elector) demote() {
	e.mu.Lock()
	if !e.isPrimary.Swap(false) {
		e.mu.Unlock()
		return
	}
	e.leaderCh = make(chan struct{})
	fn := e.onLoseLeadership
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (e *Elector) release(ctx context.Context) {
	if !e.isPrimary.Load() {
		return
	}
	released, err := e.lock.Release(ctx, e.config.InstanceID)
	if err != nil {
		e.logger.Error("Failed to release leader lock", "lock", e.lock.Name(), "error", err)
	} else if released {
		e.logger.Info("Released leader lock", "instanceId", e.config.InstanceID, "lock", e.lock.Name())
	}
	e.demote()
}
