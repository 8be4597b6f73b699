package store

import (
	"context"
	"log/slog"
	"sync"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra"
)

// MemoryStore keeps the encoded document in process. Used by the memory
// driver and in tests; it round-trips through the same codec as the others.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	saves  int
	logger *slog.Logger
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{logger: logger}
}

func (s *MemoryStore) Load(_ context.Context) map[pool.ID]*pool.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pools, err := Decode(s.data)
	if err != nil {
		_ = infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "malformed pool snapshot, starting empty", err)
		return make(map[pool.ID]*pool.Pool)
	}
	return pools
}

func (s *MemoryStore) Save(_ context.Context, pools map[pool.ID]*pool.Pool) error {
	data, err := Encode(pools)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindCorruptDocument, "encode pool snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Snapshot returns a copy of the last saved document.
func (s *MemoryStore) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
