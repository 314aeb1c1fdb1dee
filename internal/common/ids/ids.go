// Package ids generates identifiers for entities and domain events.
//
// Entities use random UUIDs so ids can be minted by any instance (and by the
// View clone graph copy) without coordination. Events use ULIDs, which sort
// by creation time and keep the events collection naturally ordered.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New returns a new entity id.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed entity id.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewEventID returns a new time-ordered event id.
func NewEventID() string {
	return NewEventIDAt(time.Now())
}

// NewEventIDAt returns an event id for the given instant.
func NewEventIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// EventTime extracts the timestamp embedded in an event id.
func EventTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
