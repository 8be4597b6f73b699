package uow

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"slices"
	"sync"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/pkg/metrics"
	"cdk-distributor/internal/usecase/shared"
)

var errRegistryNotOpen = errs.New("registry used before Open")

type FlushPolicy struct {
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// Registry is the process-wide, mutex-guarded owner of all pools. Every
// mutation runs under the write lock and is flushed to the store before the
// lock is released, so a save always sees a complete state.
type Registry struct {
	mu     sync.RWMutex
	pools  map[pool.ID]*pool.Pool
	open   bool
	dirty  bool
	store  shared.PoolStore
	policy FlushPolicy
	logger *slog.Logger
}

func NewRegistry(store shared.PoolStore, policy FlushPolicy, logger *slog.Logger) *Registry {
	if policy.Timeout <= 0 {
		policy.Timeout = 5 * time.Second
	}
	if policy.Retries < 0 {
		policy.Retries = 0
	}
	return &Registry{
		pools:  make(map[pool.ID]*pool.Pool),
		store:  store,
		policy: policy,
		logger: logger,
	}
}

func (r *Registry) Open(ctx context.Context) error {
	loaded := r.store.Load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pools = loaded
	if r.pools == nil {
		r.pools = make(map[pool.ID]*pool.Pool)
	}
	r.open = true
	r.dirty = false
	metrics.SetDirty(false)

	r.logger.Info("pool registry opened", slog.Int("pools", len(r.pools)))
	return nil
}

// Close flushes once more if the last flush failed.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return nil
	}
	r.open = false
	if !r.dirty {
		return nil
	}

	r.logger.Warn("registry dirty on shutdown, flushing")
	return r.flushLocked(ctx)
}

func (r *Registry) Within(ctx context.Context, fn func(tx shared.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return errRegistryNotOpen
	}

	if err := fn(&registryTx{pools: r.pools}); err != nil {
		return err
	}

	return r.flushLocked(ctx)
}

func (r *Registry) Get(id pool.ID) (*pool.Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pools[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (r *Registry) Exists(id pool.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pools[id]
	return ok
}

func (r *Registry) List() []*pool.Pool {
	r.mu.RLock()
	out := make([]*pool.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p.Clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *pool.Pool) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

func (r *Registry) Dirty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dirty
}

func (r *Registry) RetryDirty(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty || !r.open {
		return nil
	}
	return r.flushLocked(ctx)
}

// flushLocked must be called with mu held. The caller's cancellation does not
// abort a flush; each attempt is bounded by the policy timeout instead.
func (r *Registry) flushLocked(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	var (
		err      error
		attempts int
	)
	for attempt := 0; attempt <= r.policy.Retries; attempt++ {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
		err = r.store.Save(attemptCtx, r.pools)
		cancel()

		if err == nil {
			if r.dirty {
				r.logger.Info("registry flushed after earlier failure")
			}
			r.dirty = false
			metrics.SetDirty(false)
			metrics.RecordFlush("ok", time.Since(start))
			return nil
		}

		if attempt == r.policy.Retries || !infra.Retryable(err) {
			break
		}

		waitTime := calculateBackoff(attempt, r.policy.Backoff)
		r.logger.Warn("retrying registry flush",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())
		time.Sleep(waitTime)
	}

	r.dirty = true
	metrics.SetDirty(true)
	metrics.RecordFlush("failed", time.Since(start))
	r.logger.Error("registry flush failed, marked dirty",
		"attempts", attempts,
		"error", err.Error())

	return errs.Mark(errs.Wrap(err, "flush registry"), errs.ErrPersistenceFailed)
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

type registryTx struct {
	pools map[pool.ID]*pool.Pool
}

func (t *registryTx) Pool(id pool.ID) (*pool.Pool, bool) {
	p, ok := t.pools[id]
	return p, ok
}

func (t *registryTx) Put(p *pool.Pool) {
	t.pools[p.ID()] = p
}
