// Package store persists generated workbook artifacts for a bounded time
// window between the generating request and the downloading request.
//
// Two backends implement the same contract: an in-process table (artifacts
// vanish on restart, which the disposable-artifact model allows) and a
// Postgres table (artifacts and their TTLs survive restarts). Retention is
// either single-use (an artifact is deleted by its first successful Get) or
// reusable until expiry; the policy is fixed per deployment via Options and
// must never be mixed within one process.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for an unknown, expired, or already
// consumed artifact ID. Callers treat it as routine, not as a fault.
var ErrNotFound = errors.New("store: artifact not found")

// Store is the artifact store contract shared by all backends.
// Implementations must be safe for concurrent use; under the single-use
// policy, concurrent Gets on one ID see exactly one success.
type Store interface {
	// Put persists data under a freshly generated ID and returns the ID.
	// TTL is truncated to whole seconds. Put never waits on cleanup of
	// unrelated expired entries.
	Put(ctx context.Context, data []byte, ttl time.Duration) (string, error)

	// Get returns the artifact bytes if the ID exists and its TTL has not
	// elapsed. A Get at exactly createdAt+ttl is already expired.
	Get(ctx context.Context, id string) ([]byte, error)

	// Close releases backend resources and stops background sweeps.
	Close(ctx context.Context) error
}

// Options configures backend-independent store behavior.
type Options struct {
	// SingleUse deletes an artifact on its first successful Get, making
	// every download link one-shot.
	SingleUse bool

	// SweepInterval is the period of the background expiry sweep.
	// Zero selects a backend default.
	SweepInterval time.Duration
}

const defaultSweepInterval = time.Minute
