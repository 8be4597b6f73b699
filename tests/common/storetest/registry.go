//go:build unit || e2e

package storetest

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra/store"
	"cdk-distributor/internal/infra/uow"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ToggleStore wraps a MemoryStore and fails every save while broken is set.
type ToggleStore struct {
	*store.MemoryStore

	mu     sync.Mutex
	broken bool
}

func NewToggleStore() *ToggleStore {
	return &ToggleStore{MemoryStore: store.NewMemoryStore(DiscardLogger())}
}

func (s *ToggleStore) Break(broken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = broken
}

func (s *ToggleStore) Save(ctx context.Context, pools map[pool.ID]*pool.Pool) error {
	s.mu.Lock()
	broken := s.broken
	s.mu.Unlock()
	if broken {
		return errs.New("store unavailable")
	}
	return s.MemoryStore.Save(ctx, pools)
}

// NewRegistry opens a registry over st seeded with pools. Flushes do not retry.
func NewRegistry(t *testing.T, st shared.PoolStore, pools ...*pool.Pool) *uow.Registry {
	t.Helper()

	reg := uow.NewRegistry(st, uow.FlushPolicy{Timeout: time.Second, Retries: 0}, DiscardLogger())
	require.NoError(t, reg.Open(context.Background()))

	if len(pools) > 0 {
		require.NoError(t, reg.Within(context.Background(), func(tx shared.Tx) error {
			for _, p := range pools {
				tx.Put(p)
			}
			return nil
		}))
	}
	return reg
}
