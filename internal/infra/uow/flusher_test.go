//go:build unit

package uow_test

import (
	"context"
	"testing"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/infra/store"
	"cdk-distributor/internal/infra/uow"
	"cdk-distributor/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirtyFlusher(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		reg := newRegistry(t, store.NewMemoryStore(discardLogger()), 0)
		_, err := uow.NewDirtyFlusher(reg, "every now and then", discardLogger())
		assert.Error(t, err)
	})

	t.Run("tick flushes dirty registry", func(t *testing.T) {
		st := &flakyStore{inner: store.NewMemoryStore(discardLogger())}
		reg := newRegistry(t, st, 0)

		st.setFailures(1)
		p, err := pool.New("P", "", pool.DefaultSettings(), []string{"A"}, nil)
		require.NoError(t, err)
		_ = reg.Within(context.Background(), func(tx shared.Tx) error {
			tx.Put(p)
			return nil
		})
		require.True(t, reg.Dirty())

		f, err := uow.NewDirtyFlusher(reg, "@every 1h", discardLogger())
		require.NoError(t, err)
		f.Run()

		assert.False(t, reg.Dirty())
	})

	t.Run("start and stop", func(t *testing.T) {
		reg := newRegistry(t, store.NewMemoryStore(discardLogger()), 0)
		f, err := uow.NewDirtyFlusher(reg, "@every 1h", discardLogger())
		require.NoError(t, err)

		f.Start()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, f.Stop(ctx))
	})
}
