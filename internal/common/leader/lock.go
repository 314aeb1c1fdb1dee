// Package leader elects one instance among many to run singleton work,
// such as seeding the built-in catalog at startup.
package leader

import (
	"context"
	"time"
)

// Lock is a named, expiring, single-holder lock.
type Lock interface {
	// Acquire takes the lock for holder when it is free, expired or already
	// held by holder.
	Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error)

	// Refresh extends the lock if holder still owns it.
	Refresh(ctx context.Context, holder string, ttl time.Duration) (bool, error)

	// Release drops the lock if holder owns it.
	Release(ctx context.Context, holder string) (bool, error)

	// Holder returns the current owner, or "" when the lock is free.
	Holder(ctx context.Context) (string, error)

	// Name labels the lock in logs.
	Name() string
}
