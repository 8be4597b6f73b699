package shared

import (
	"context"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/pkg/errs"
)

// WithPool runs fn against the live pool under the registry's exclusive lock.
// On a persistence failure the mutation has already happened, so the result
// is returned alongside the error.
func WithPool[R any](ctx context.Context, reg Registry, id pool.ID, fn func(p *pool.Pool) (R, error)) (R, error) {
	var result R

	err := reg.Within(ctx, func(tx Tx) error {
		p, ok := tx.Pool(id)
		if !ok {
			return errs.Mark(errs.Newf("pool %q", id), errs.ErrNotFound)
		}

		var fnErr error
		result, fnErr = fn(p)
		return fnErr
	})
	if err != nil {
		if errs.Is(err, errs.ErrPersistenceFailed) {
			return result, err
		}
		var zero R
		return zero, err
	}

	return result, nil
}
