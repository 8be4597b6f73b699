package shared

import (
	"context"

	"cdk-distributor/internal/domain/pool"
)

// Registry is the single owner of mutable pool state.
type Registry interface {
	// Within runs fn under exclusive access to every pool and flushes the
	// resulting state to the PoolStore before returning. If fn fails nothing
	// is flushed; if the flush fails the in-memory change stands and the
	// error is marked ErrPersistenceFailed.
	Within(ctx context.Context, fn func(tx Tx) error) error
	// Get returns a detached copy of the pool.
	Get(id pool.ID) (*pool.Pool, bool)
	Exists(id pool.ID) bool
	List() []*pool.Pool
	Dirty() bool
	// RetryDirty flushes again when a previous flush failed. No-op when clean.
	RetryDirty(ctx context.Context) error
}

// Tx is the view of the registry handed to a Within callback. Pools returned
// by Pool may be mutated in place.
type Tx interface {
	Pool(id pool.ID) (*pool.Pool, bool)
	Put(p *pool.Pool)
}

// PoolStore persists a whole registry snapshot.
type PoolStore interface {
	// Load never fails the caller: missing or unreadable state is logged and
	// reported as an empty mapping.
	Load(ctx context.Context) map[pool.ID]*pool.Pool
	Save(ctx context.Context, pools map[pool.ID]*pool.Pool) error
}
