package commands

import (
	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/errs"
)

// classify attaches the transport-facing taxonomy to domain errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errs.Is(err, pool.ErrNoCodesLeft):
		return errs.Mark(err, errs.ErrExhausted)
	case errs.Is(err, pool.ErrAllowanceUsedUp):
		return errs.Mark(err, errs.ErrQuotaReached)
	case errs.Is(err, pool.ErrInvalidMaxPerUser),
		errs.Is(err, pool.ErrEmptyPoolID),
		errs.Is(err, pool.ErrPoolIDHasSpace),
		errs.Is(err, user.ErrEmptyUserID),
		errs.Is(err, user.ErrUserIDTooLong):
		return errs.Mark(err, errs.ErrValidation)
	default:
		return err
	}
}
