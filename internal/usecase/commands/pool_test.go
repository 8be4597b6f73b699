//go:build unit

package commands_test

import (
	"context"
	"testing"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/pkg/patch"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/tests/common/builder"
	"cdk-distributor/tests/common/storetest"
	commandsmock "cdk-distributor/tests/mock/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sourceURL = "https://example.com/codes.txt"

func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func itemCodes(p *pool.Pool) []string {
	var out []string
	for _, it := range p.Items() {
		out = append(out, it.Code)
	}
	return out
}

func TestPoolCommands_CreatePool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool from source", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return([]string{"A", "B", "C"}, nil)

		st := storetest.NewToggleStore()
		reg := storetest.NewRegistry(t, st)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger(), commands.WithShuffle(reverse))

		summary, err := uc.CreatePool(ctx, commands.CreatePoolParams{
			ID: "P", SourceURL: sourceURL, Shuffle: true, MaxPerUser: 2,
		})
		require.NoError(t, err)

		want := pool.Summary{ID: "P", Name: "P", Total: 3, Remaining: 3, MaxPerUser: 2}
		if diff := cmp.Diff(want, *summary); diff != "" {
			t.Errorf("summary mismatch (-want +got):\n%s", diff)
		}

		p, ok := reg.Get("P")
		require.True(t, ok)
		assert.Equal(t, []string{"C", "B", "A"}, itemCodes(p))
		assert.Equal(t, 1, st.Saves())
	})

	t.Run("existing id without overwrite never fetches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)

		existing, err := builder.NewPoolBuilder().BuildDomain()
		require.NoError(t, err)
		uc := commands.NewPoolCommands(storetest.NewRegistry(t, storetest.NewToggleStore(), existing), src, storetest.DiscardLogger())

		_, err = uc.CreatePool(ctx, commands.CreatePoolParams{ID: "P", SourceURL: sourceURL, MaxPerUser: 1})
		assert.True(t, errs.Is(err, errs.ErrAlreadyExists))
	})

	t.Run("overwrite replaces items and resets history", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return([]string{"X", "Y"}, nil)

		existing, err := builder.NewPoolBuilder().With(func(b *builder.PoolBuilder) {
			b.Claims = []builder.ClaimSpec{{UserID: "u1", Count: 1}}
		}).BuildDomain()
		require.NoError(t, err)
		reg := storetest.NewRegistry(t, storetest.NewToggleStore(), existing)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		_, err = uc.CreatePool(ctx, commands.CreatePoolParams{ID: "P", SourceURL: sourceURL, Overwrite: true, MaxPerUser: 1, Name: "Fresh"})
		require.NoError(t, err)

		p, _ := reg.Get("P")
		assert.Equal(t, []string{"X", "Y"}, itemCodes(p))
		assert.Equal(t, 2, p.Remaining())
		assert.Zero(t, p.ClaimedBy("u1"))
		assert.Equal(t, "Fresh", p.Name())
	})

	t.Run("fetch failure is ingestion failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return(nil, errs.New("connection refused"))

		reg := storetest.NewRegistry(t, storetest.NewToggleStore())
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		_, err := uc.CreatePool(ctx, commands.CreatePoolParams{ID: "P", SourceURL: sourceURL, MaxPerUser: 1})
		assert.True(t, errs.Is(err, errs.ErrIngestionFailed))
		assert.False(t, reg.Exists("P"))
	})

	t.Run("invalid settings rejected before fetch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		uc := commands.NewPoolCommands(storetest.NewRegistry(t, storetest.NewToggleStore()), src, storetest.DiscardLogger())

		_, err := uc.CreatePool(ctx, commands.CreatePoolParams{ID: "P", SourceURL: sourceURL, MaxPerUser: -1})
		assert.True(t, errs.Is(err, errs.ErrValidation))

		_, err = uc.CreatePool(ctx, commands.CreatePoolParams{SourceURL: sourceURL, MaxPerUser: 1})
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("persistence failure keeps pool and reports it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return([]string{"A"}, nil)

		st := storetest.NewToggleStore()
		reg := storetest.NewRegistry(t, st)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		st.Break(true)
		summary, err := uc.CreatePool(ctx, commands.CreatePoolParams{ID: "P", SourceURL: sourceURL, MaxPerUser: 1})
		assert.True(t, errs.Is(err, errs.ErrPersistenceFailed))
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.Total)
		assert.True(t, reg.Exists("P"))
		assert.True(t, reg.Dirty())
	})
}

func TestPoolCommands_AppendCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("append preserves consumed state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return([]string{"D", "E"}, nil)

		existing, err := builder.NewPoolBuilder().With(func(b *builder.PoolBuilder) {
			b.Claims = []builder.ClaimSpec{{UserID: "u1", Count: 1}}
		}).BuildDomain()
		require.NoError(t, err)
		reg := storetest.NewRegistry(t, storetest.NewToggleStore(), existing)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		total, err := uc.AppendCodes(ctx, commands.AppendCodesParams{ID: "P", SourceURL: sourceURL})
		require.NoError(t, err)
		assert.Equal(t, 5, total)

		p, _ := reg.Get("P")
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, itemCodes(p))
		assert.True(t, p.Items()[0].Consumed)
		assert.Equal(t, 4, p.Remaining())
	})

	t.Run("overwrite replaces items but keeps user records", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return([]string{"Z"}, nil)

		existing, err := builder.NewPoolBuilder().With(func(b *builder.PoolBuilder) {
			b.Claims = []builder.ClaimSpec{{UserID: "u1", Count: 1}}
		}).BuildDomain()
		require.NoError(t, err)
		reg := storetest.NewRegistry(t, storetest.NewToggleStore(), existing)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		total, err := uc.AppendCodes(ctx, commands.AppendCodesParams{ID: "P", SourceURL: sourceURL, Overwrite: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		p, _ := reg.Get("P")
		assert.Equal(t, []string{"Z"}, itemCodes(p))
		assert.Equal(t, 1, p.ClaimedBy("u1"))
	})

	t.Run("unknown pool never fetches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		uc := commands.NewPoolCommands(storetest.NewRegistry(t, storetest.NewToggleStore()), src, storetest.DiscardLogger())

		_, err := uc.AppendCodes(ctx, commands.AppendCodesParams{ID: "P", SourceURL: sourceURL})
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("fetch failure leaves pool untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		src := commandsmock.NewMockCodeSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), sourceURL).Return(nil, errs.New("404"))

		existing, err := builder.NewPoolBuilder().BuildDomain()
		require.NoError(t, err)
		reg := storetest.NewRegistry(t, storetest.NewToggleStore(), existing)
		uc := commands.NewPoolCommands(reg, src, storetest.DiscardLogger())

		_, err = uc.AppendCodes(ctx, commands.AppendCodesParams{ID: "P", SourceURL: sourceURL})
		assert.True(t, errs.Is(err, errs.ErrIngestionFailed))
		p, _ := reg.Get("P")
		assert.Equal(t, 3, p.Summary().Total)
	})
}

func TestPoolCommands_Configure(t *testing.T) {
	ctx := context.Background()
	existing, err := builder.NewPoolBuilder().BuildDomain()
	require.NoError(t, err)
	reg := storetest.NewRegistry(t, storetest.NewToggleStore(), existing)
	uc := commands.NewPoolCommands(reg, nil, storetest.DiscardLogger())

	require.NoError(t, uc.Configure(ctx, commands.ConfigurePoolParams{
		ID:    "P",
		Patch: pool.ConfigPatch{AllowRepeat: patch.Ptr(true), Name: patch.Ptr("Renamed")},
	}))
	p, _ := reg.Get("P")
	assert.True(t, p.AllowRepeat())
	assert.Equal(t, 1, p.MaxPerUser(), "unspecified fields retained")
	assert.Equal(t, "Renamed", p.Name())

	err = uc.Configure(ctx, commands.ConfigurePoolParams{ID: "P", Patch: pool.ConfigPatch{MaxPerUser: patch.Ptr(-5)}})
	assert.True(t, errs.Is(err, errs.ErrValidation))

	err = uc.Configure(ctx, commands.ConfigurePoolParams{ID: "missing"})
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}
