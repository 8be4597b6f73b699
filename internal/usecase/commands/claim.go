package commands

//go:generate mockgen -source=claim.go -destination=../../../tests/mock/commands/claim.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/clock"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/shared"
)

type ClaimParams struct {
	PoolID pool.ID
	UserID user.ID
	Count  int
}

type ClaimResult struct {
	PoolID    pool.ID
	Codes     []string
	ClaimedAt time.Time
	// false when the grant stands in memory but the store did not accept it
	Persisted bool
}

type ClaimCommands interface {
	Claim(ctx context.Context, params ClaimParams) (*ClaimResult, error)
}

type claimCommandsImpl struct {
	registry shared.Registry
	recorder ClaimRecorder
	clock    clock.Clock
	logger   *slog.Logger
}

func NewClaimCommands(registry shared.Registry, recorder ClaimRecorder, clk clock.Clock, logger *slog.Logger) ClaimCommands {
	return &claimCommandsImpl{
		registry: registry,
		recorder: recorder,
		clock:    clk,
		logger:   logger,
	}
}

// Claim runs the allocation under the registry lock. On ErrPersistenceFailed
// the granted codes are still returned: they are already assigned in memory.
func (uc *claimCommandsImpl) Claim(ctx context.Context, params ClaimParams) (*ClaimResult, error) {
	now := uc.clock.Now()

	if params.UserID == "" {
		err := errs.Mark(user.ErrEmptyUserID, errs.ErrValidation)
		uc.record(ctx, params, 0, err, now)
		return nil, err
	}

	codes, err := shared.WithPool(ctx, uc.registry, params.PoolID, func(p *pool.Pool) ([]string, error) {
		return p.Claim(params.UserID, params.Count, now)
	})
	err = classify(err)
	uc.record(ctx, params, len(codes), err, now)

	if err != nil {
		if errs.Is(err, errs.ErrPersistenceFailed) && len(codes) > 0 {
			uc.logger.Error("claim granted but not persisted",
				slog.String("pool_id", params.PoolID.String()),
				slog.String("user_id", params.UserID.String()),
				slog.Int("granted", len(codes)))
			return &ClaimResult{PoolID: params.PoolID, Codes: codes, ClaimedAt: now, Persisted: false}, err
		}
		return nil, err
	}

	uc.logger.Info("codes claimed",
		slog.String("pool_id", params.PoolID.String()),
		slog.String("user_id", params.UserID.String()),
		slog.Int("requested", params.Count),
		slog.Int("granted", len(codes)))

	return &ClaimResult{PoolID: params.PoolID, Codes: codes, ClaimedAt: now, Persisted: true}, nil
}

func (uc *claimCommandsImpl) record(ctx context.Context, params ClaimParams, granted int, err error, at time.Time) {
	if uc.recorder == nil {
		return
	}
	ev := shared.ClaimEvent{
		PoolID:    params.PoolID,
		UserID:    params.UserID,
		Requested: params.Count,
		Granted:   granted,
		Outcome:   outcomeOf(err),
		At:        at,
	}
	if rerr := uc.recorder.RecordClaim(ctx, ev); rerr != nil {
		uc.logger.Warn("failed to record claim", slog.String("error", rerr.Error()))
	}
}

func outcomeOf(err error) shared.ClaimOutcome {
	switch {
	case err == nil:
		return shared.OutcomeGranted
	case errs.Is(err, errs.ErrPersistenceFailed):
		return shared.OutcomeUnpersisted
	case errs.Is(err, errs.ErrNotFound):
		return shared.OutcomeNotFound
	case errs.Is(err, errs.ErrExhausted):
		return shared.OutcomeExhausted
	case errs.Is(err, errs.ErrQuotaReached):
		return shared.OutcomeQuotaReached
	case errs.Is(err, errs.ErrValidation):
		return shared.OutcomeInvalid
	default:
		return shared.OutcomeInternalError
	}
}
