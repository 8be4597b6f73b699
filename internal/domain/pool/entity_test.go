//go:build unit

package pool_test

import (
	"testing"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/patch"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func codesOf(items []pool.CodeItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

func TestNewID(t *testing.T) {
	id, err := pool.NewID("  spring ")
	require.NoError(t, err)
	assert.Equal(t, pool.ID("spring"), id)

	_, err = pool.NewID(" ")
	assert.ErrorIs(t, err, pool.ErrEmptyPoolID)

	_, err = pool.NewID("two words")
	assert.ErrorIs(t, err, pool.ErrPoolIDHasSpace)
}

func TestNew(t *testing.T) {
	t.Run("name defaults to id", func(t *testing.T) {
		p, err := pool.New("P", "  ", pool.DefaultSettings(), []string{"A"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "P", p.Name())
		assert.Equal(t, 1, p.MaxPerUser())
	})

	t.Run("duplicates pass through", func(t *testing.T) {
		p, err := pool.New("P", "", pool.DefaultSettings(), []string{"A", "A"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "A"}, codesOf(p.Items()))
	})

	t.Run("shuffle applied once", func(t *testing.T) {
		p, err := pool.New("P", "", pool.DefaultSettings(), []string{"A", "B", "C"}, reverse)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "B", "A"}, codesOf(p.Items()))
	})

	t.Run("negative quota rejected", func(t *testing.T) {
		_, err := pool.New("P", "", pool.Settings{MaxPerUser: -1}, nil, nil)
		assert.ErrorIs(t, err, pool.ErrInvalidMaxPerUser)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		_, err := pool.New("", "", pool.DefaultSettings(), nil, nil)
		assert.ErrorIs(t, err, pool.ErrEmptyPoolID)
	})
}

func TestAppend(t *testing.T) {
	t.Run("append keeps consumed state and extends order", func(t *testing.T) {
		p, err := pool.New("P", "", pool.Settings{MaxPerUser: 1}, []string{"A", "B"}, nil)
		require.NoError(t, err)
		_, err = p.Claim("u1", 1, claimTime)
		require.NoError(t, err)

		total := p.Append([]string{"C", "D"}, false, reverse)
		assert.Equal(t, 4, total)

		items := p.Items()
		assert.Equal(t, []string{"A", "B", "D", "C"}, codesOf(items))
		assert.True(t, items[0].Consumed)
		assert.Equal(t, 1, p.ClaimedBy("u1"))
	})

	t.Run("replace drops items but keeps user records", func(t *testing.T) {
		p, err := pool.New("P", "", pool.Settings{MaxPerUser: 1}, []string{"A", "B"}, nil)
		require.NoError(t, err)
		_, err = p.Claim("u1", 1, claimTime)
		require.NoError(t, err)

		total := p.Append([]string{"X"}, true, nil)
		assert.Equal(t, 1, total)
		assert.Equal(t, 1, p.Remaining())
		assert.Equal(t, 1, p.ClaimedBy("u1"))

		_, err = p.Claim("u1", 1, claimTime)
		assert.ErrorIs(t, err, pool.ErrAllowanceUsedUp)
	})
}

func TestConfigure(t *testing.T) {
	p, err := pool.New("P", "Spring", pool.Settings{MaxPerUser: 1}, []string{"A"}, nil)
	require.NoError(t, err)

	require.NoError(t, p.Configure(pool.ConfigPatch{MaxPerUser: patch.Ptr(3)}))
	assert.Equal(t, 3, p.MaxPerUser())
	assert.False(t, p.AllowRepeat())
	assert.Equal(t, "Spring", p.Name())

	require.NoError(t, p.Configure(pool.ConfigPatch{AllowRepeat: patch.Ptr(true), Name: patch.Ptr("Summer")}))
	assert.True(t, p.AllowRepeat())
	assert.Equal(t, 3, p.MaxPerUser())
	assert.Equal(t, "Summer", p.Name())

	err = p.Configure(pool.ConfigPatch{MaxPerUser: patch.Ptr(-2)})
	assert.ErrorIs(t, err, pool.ErrInvalidMaxPerUser)
	assert.Equal(t, 3, p.MaxPerUser())
}

func TestSummaryAndClone(t *testing.T) {
	p, err := pool.New("P", "", pool.Settings{MaxPerUser: 2}, []string{"A", "B", "C"}, nil)
	require.NoError(t, err)
	_, err = p.Claim("u1", 2, claimTime)
	require.NoError(t, err)

	want := pool.Summary{ID: "P", Name: "P", Total: 3, Remaining: 1, Claimed: 2, MaxPerUser: 2}
	if diff := cmp.Diff(want, p.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	c := p.Clone()
	_, err = c.Claim("u2", 1, claimTime)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Remaining(), "clone must not share items")
	assert.Equal(t, map[user.ID]int{"u1": 2}, p.UserRecords(), "clone must not share records")
}
