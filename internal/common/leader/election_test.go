package leader

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLock(client, "player:leader:test"), mr
}

// === Config ===

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.InstanceID == "" {
		t.Error("expected an instance id")
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL = %v, want 30s", cfg.TTL)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", cfg.RefreshInterval)
	}

	odd := Config{InstanceID: "a", TTL: 6 * time.Second, RefreshInterval: 9 * time.Second}.withDefaults()
	if odd.RefreshInterval != 2*time.Second {
		t.Errorf("refresh at or above TTL should be clamped, got %v", odd.RefreshInterval)
	}
}

// === RedisLock ===

func TestRedisLockSingleHolder(t *testing.T) {
	ctx := context.Background()
	lock, _ := newRedisLock(t)

	if ok, err := lock.Acquire(ctx, "a", time.Minute); err != nil || !ok {
		t.Fatalf("a should acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := lock.Acquire(ctx, "b", time.Minute); ok {
		t.Error("b must not acquire a held lock")
	}
	if ok, _ := lock.Acquire(ctx, "a", time.Minute); !ok {
		t.Error("re-acquire by the holder should succeed")
	}
	if ok, _ := lock.Refresh(ctx, "b", time.Minute); ok {
		t.Error("b must not refresh a's lock")
	}
	if ok, _ := lock.Release(ctx, "b"); ok {
		t.Error("b must not release a's lock")
	}
	if holder, _ := lock.Holder(ctx); holder != "a" {
		t.Errorf("holder = %q, want a", holder)
	}

	if ok, err := lock.Release(ctx, "a"); err != nil || !ok {
		t.Fatalf("a should release: ok=%v err=%v", ok, err)
	}
	if holder, _ := lock.Holder(ctx); holder != "" {
		t.Errorf("holder after release = %q", holder)
	}
	if ok, _ := lock.Acquire(ctx, "b", time.Minute); !ok {
		t.Error("b should acquire a released lock")
	}
}

func TestRedisLockExpires(t *testing.T) {
	ctx := context.Background()
	lock, mr := newRedisLock(t)

	if ok, _ := lock.Acquire(ctx, "a", 10*time.Second); !ok {
		t.Fatal("a should acquire")
	}
	mr.FastForward(11 * time.Second)

	if ok, _ := lock.Refresh(ctx, "a", 10*time.Second); ok {
		t.Error("an expired lock cannot be refreshed")
	}
	if ok, _ := lock.Acquire(ctx, "b", 10*time.Second); !ok {
		t.Error("b should take over an expired lock")
	}
}

// === Elector ===

func TestElectorSingleLeader(t *testing.T) {
	lock, _ := newRedisLock(t)
	cfg := Config{TTL: 3 * time.Second, RefreshInterval: 50 * time.Millisecond}

	first := NewElector(lock, Config{InstanceID: "first", TTL: cfg.TTL, RefreshInterval: cfg.RefreshInterval}, nil)
	second := NewElector(lock, Config{InstanceID: "second", TTL: cfg.TTL, RefreshInterval: cfg.RefreshInterval}, nil)

	became := make(chan struct{}, 1)
	first.OnBecomeLeader(func() { became <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		first.Start(ctx)
		close(done)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := first.AwaitLeadership(waitCtx); err != nil {
		t.Fatalf("first never became leader: %v", err)
	}
	<-became

	secondCtx, secondCancel := context.WithCancel(context.Background())
	go second.Start(secondCtx)
	time.Sleep(200 * time.Millisecond)
	if second.IsPrimary() {
		t.Error("only one elector may be primary")
	}
	if leader, _ := second.CurrentLeader(context.Background()); leader != "first" {
		t.Errorf("CurrentLeader = %q, want first", leader)
	}

	// First steps down; second takes over on its next tick.
	cancel()
	<-done
	if first.IsPrimary() {
		t.Error("first should have released leadership on shutdown")
	}

	takeover, takeoverCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer takeoverCancel()
	if err := second.AwaitLeadership(takeover); err != nil {
		t.Fatalf("second never took over: %v", err)
	}
	secondCancel()
}

func TestAwaitLeadershipHonorsContext(t *testing.T) {
	lock, _ := newRedisLock(t)
	e := NewElector(lock, Config{InstanceID: "idle"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.AwaitLeadership(ctx); err == nil {
		t.Error("expected a context error when the elector never runs")
	}
}
