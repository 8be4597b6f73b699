package commands

//go:generate mockgen -source=pool.go -destination=../../../tests/mock/commands/pool.go -package=commandsmock

import (
	"context"
	"log/slog"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/shared"
)

type CreatePoolParams struct {
	ID          pool.ID
	SourceURL   string
	Name        string
	AllowRepeat bool
	Shuffle     bool
	Overwrite   bool
	MaxPerUser  int
}

type AppendCodesParams struct {
	ID        pool.ID
	SourceURL string
	Shuffle   bool
	Overwrite bool
}

type ConfigurePoolParams struct {
	ID    pool.ID
	Patch pool.ConfigPatch
}

type PoolCommands interface {
	CreatePool(ctx context.Context, params CreatePoolParams) (*pool.Summary, error)
	AppendCodes(ctx context.Context, params AppendCodesParams) (int, error)
	Configure(ctx context.Context, params ConfigurePoolParams) error
}

type PoolCommandsOption func(*poolCommandsImpl)

// WithShuffle replaces the uniform shuffle used when Shuffle is requested.
func WithShuffle(fn pool.ShuffleFunc) PoolCommandsOption {
	return func(uc *poolCommandsImpl) { uc.shuffle = fn }
}

type poolCommandsImpl struct {
	registry shared.Registry
	source   CodeSource
	shuffle  pool.ShuffleFunc
	logger   *slog.Logger
}

func NewPoolCommands(registry shared.Registry, source CodeSource, logger *slog.Logger, opts ...PoolCommandsOption) PoolCommands {
	uc := &poolCommandsImpl{
		registry: registry,
		source:   source,
		shuffle:  pool.DefaultShuffle,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreatePool checks for an existing id before fetching so a refused create
// costs no network round trip, and again under the lock since the fetch
// runs unlocked.
func (uc *poolCommandsImpl) CreatePool(ctx context.Context, params CreatePoolParams) (*pool.Summary, error) {
	settings := pool.Settings{AllowRepeat: params.AllowRepeat, MaxPerUser: params.MaxPerUser}
	if params.ID == "" {
		return nil, classify(pool.ErrEmptyPoolID)
	}
	if err := settings.Validate(); err != nil {
		return nil, classify(err)
	}

	if !params.Overwrite && uc.registry.Exists(params.ID) {
		return nil, errs.Mark(errs.Newf("pool %q", params.ID), errs.ErrAlreadyExists)
	}

	codes, err := uc.fetch(ctx, params.SourceURL)
	if err != nil {
		return nil, err
	}

	p, err := pool.New(params.ID, params.Name, settings, codes, uc.shuffleFor(params.Shuffle))
	if err != nil {
		return nil, classify(err)
	}

	err = uc.registry.Within(ctx, func(tx shared.Tx) error {
		if _, exists := tx.Pool(params.ID); exists && !params.Overwrite {
			return errs.Mark(errs.Newf("pool %q", params.ID), errs.ErrAlreadyExists)
		}
		tx.Put(p)
		return nil
	})
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		return nil, err
	}

	summary := p.Summary()
	uc.logger.Info("pool created",
		slog.String("pool_id", params.ID.String()),
		slog.Int("total", summary.Total),
		slog.Bool("overwrite", params.Overwrite),
		slog.Bool("persisted", err == nil))

	return &summary, err
}

func (uc *poolCommandsImpl) AppendCodes(ctx context.Context, params AppendCodesParams) (int, error) {
	if !uc.registry.Exists(params.ID) {
		return 0, errs.Mark(errs.Newf("pool %q", params.ID), errs.ErrNotFound)
	}

	codes, err := uc.fetch(ctx, params.SourceURL)
	if err != nil {
		return 0, err
	}

	total, err := shared.WithPool(ctx, uc.registry, params.ID, func(p *pool.Pool) (int, error) {
		return p.Append(codes, params.Overwrite, uc.shuffleFor(params.Shuffle)), nil
	})
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		return 0, err
	}

	uc.logger.Info("codes appended",
		slog.String("pool_id", params.ID.String()),
		slog.Int("added", len(codes)),
		slog.Int("total", total),
		slog.Bool("overwrite", params.Overwrite))

	return total, err
}

func (uc *poolCommandsImpl) Configure(ctx context.Context, params ConfigurePoolParams) error {
	_, err := shared.WithPool(ctx, uc.registry, params.ID, func(p *pool.Pool) (struct{}, error) {
		return struct{}{}, p.Configure(params.Patch)
	})
	return classify(err)
}

func (uc *poolCommandsImpl) fetch(ctx context.Context, url string) ([]string, error) {
	codes, err := uc.source.Fetch(ctx, url)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "fetch code list"), errs.ErrIngestionFailed)
	}
	return codes, nil
}

func (uc *poolCommandsImpl) shuffleFor(requested bool) pool.ShuffleFunc {
	if !requested {
		return nil
	}
	return uc.shuffle
}
