//go:build unit

package infra_test

import (
	"io"
	"log/slog"
	"testing"

	"cdk-distributor/internal/infra"
	"cdk-distributor/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cause := errs.New("disk full")

	err := infra.WrapRepoErr(logger, infra.KindIOFailure, "write snapshot", cause)

	assert.True(t, infra.IsKind(err, infra.KindIOFailure))
	assert.False(t, infra.IsKind(err, infra.KindDBFailure))
	assert.True(t, errs.Is(err, cause))
	assert.Contains(t, err.Error(), "IO_FAILURE: write snapshot")
}

func TestWrapRepoErrWithoutCause(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := infra.WrapRepoErr(logger, infra.KindCorruptDocument, "bad document", nil)

	assert.Equal(t, "CORRUPT_DOCUMENT: bad document", err.Error())
}

func TestRetryable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "io failure", err: infra.WrapRepoErr(logger, infra.KindIOFailure, "write", errs.New("eio")), want: true},
		{name: "timeout", err: infra.WrapRepoErr(logger, infra.KindTimeout, "write", errs.New("deadline")), want: true},
		{name: "corrupt document", err: infra.WrapRepoErr(logger, infra.KindCorruptDocument, "encode", errs.New("bad")), want: false},
		{name: "wrapped corrupt document", err: errs.Wrap(infra.WrapRepoErr(logger, infra.KindCorruptDocument, "encode", nil), "flush"), want: false},
		{name: "unclassified", err: errs.New("store unavailable"), want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, infra.Retryable(tc.err))
		})
	}
}
