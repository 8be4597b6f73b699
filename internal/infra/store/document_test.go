//go:build unit

package store_test

import (
	"testing"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/infra/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolState struct {
	Name        string
	Settings    pool.Settings
	Items       []pool.CodeItem
	UserRecords map[user.ID]int
}

func stateOf(pools map[pool.ID]*pool.Pool) map[pool.ID]poolState {
	out := make(map[pool.ID]poolState, len(pools))
	for id, p := range pools {
		out[id] = poolState{
			Name:        p.Name(),
			Settings:    p.Settings(),
			Items:       p.Items(),
			UserRecords: p.UserRecords(),
		}
	}
	return out
}

func samplePools(t *testing.T) map[pool.ID]*pool.Pool {
	t.Helper()
	claimedAt := time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC)

	spring, err := pool.New("spring", "Spring Festival 兑换码", pool.Settings{MaxPerUser: 2}, []string{"A", "B", "C", "A"}, nil)
	require.NoError(t, err)
	_, err = spring.Claim("10001", 2, claimedAt)
	require.NoError(t, err)

	open, err := pool.New("open", "", pool.Settings{AllowRepeat: true, MaxPerUser: 1}, []string{"X<&>"}, nil)
	require.NoError(t, err)

	return map[pool.ID]*pool.Pool{"spring": spring, "open": open}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pools := samplePools(t)

	data, err := store.Encode(pools)
	require.NoError(t, err)

	decoded, err := store.Decode(data)
	require.NoError(t, err)

	if diff := cmp.Diff(stateOf(pools), stateOf(decoded)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := store.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "save(load()) must be stable")
}

func TestEncodeFormat(t *testing.T) {
	data, err := store.Encode(samplePools(t))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"allow_duplicate": false`)
	assert.Contains(t, s, `"max_per_user": 2`)
	assert.Contains(t, s, `"user_records": {`)
	assert.Contains(t, s, `"10001": 2`)
	assert.Contains(t, s, `"time": "2025-03-01T12:30:00.123456Z"`)
	assert.Contains(t, s, `"user": "",`)
	assert.Contains(t, s, "Spring Festival 兑换码", "non-ASCII kept verbatim")
	assert.Contains(t, s, `"X<&>"`, "HTML characters not escaped")
	assert.Contains(t, s, "\n  \"open\": {", "two-space indent")
}

func TestDecodeLegacyDocument(t *testing.T) {
	legacy := []byte(`{
  "P": {
    "allow_duplicate": false,
    "items": [
      {"code": "A", "used": true, "user": "u1", "time": "2024-11-02T08:15:30.500000"},
      {"code": "B", "used": true, "user": "u2", "time": "2024-11-02T08:16:00"},
      {"code": "C", "used": false, "user": "", "time": ""}
    ],
    "user_records": {"u1": 1, "u2": 1}
  }
}`)

	pools, err := store.Decode(legacy)
	require.NoError(t, err)
	require.Contains(t, pools, pool.ID("P"))

	p := pools["P"]
	assert.Equal(t, "P", p.Name(), "missing name falls back to id")
	assert.Equal(t, pool.DefaultMaxPerUser, p.MaxPerUser(), "missing max_per_user falls back to default")

	items := p.Items()
	assert.Equal(t, time.Date(2024, 11, 2, 8, 15, 30, 500000000, time.UTC), items[0].ClaimedAt)
	assert.Equal(t, time.Date(2024, 11, 2, 8, 16, 0, 0, time.UTC), items[1].ClaimedAt)
	assert.True(t, items[2].ClaimedAt.IsZero())
	assert.Equal(t, 1, p.Remaining())
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		wantErr bool
		wantLen int
	}{
		{name: "empty input", in: "", wantLen: 0},
		{name: "whitespace", in: "  \n", wantLen: 0},
		{name: "empty object", in: "{}", wantLen: 0},
		{name: "not json", in: "{oops", wantErr: true},
		{name: "wrong shape", in: `{"P": []}`, wantErr: true},
		{name: "bad time", in: `{"P": {"items": [{"code": "A", "used": true, "user": "u", "time": "yesterday"}]}}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Decode([]byte(tc.in))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tc.wantLen)
		})
	}
}
