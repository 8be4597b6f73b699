package queries

//go:generate mockgen -source=pool.go -destination=../../../tests/mock/queries/pool.go -package=queriesmock

import (
	"context"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/shared"
)

type PoolQueries interface {
	Describe(ctx context.Context, id pool.ID) (*PoolView, error)
	List(ctx context.Context) ([]PoolView, error)
}

type poolQueriesImpl struct {
	registry shared.Registry
}

func NewPoolQueries(registry shared.Registry) PoolQueries {
	return &poolQueriesImpl{registry: registry}
}

func (q *poolQueriesImpl) Describe(_ context.Context, id pool.ID) (*PoolView, error) {
	p, ok := q.registry.Get(id)
	if !ok {
		return nil, errs.Mark(errs.Newf("pool %q", id), errs.ErrNotFound)
	}
	view := toPoolView(p)
	return &view, nil
}

func (q *poolQueriesImpl) List(_ context.Context) ([]PoolView, error) {
	pools := q.registry.List()
	views := make([]PoolView, 0, len(pools))
	for _, p := range pools {
		views = append(views, toPoolView(p))
	}
	return views, nil
}
