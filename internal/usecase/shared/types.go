package shared

import (
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
)

type ClaimOutcome string

const (
	OutcomeGranted       ClaimOutcome = "granted"
	OutcomeUnpersisted   ClaimOutcome = "granted_unpersisted"
	OutcomeNotFound      ClaimOutcome = "not_found"
	OutcomeExhausted     ClaimOutcome = "exhausted"
	OutcomeQuotaReached  ClaimOutcome = "quota_reached"
	OutcomeInvalid       ClaimOutcome = "invalid"
	OutcomeInternalError ClaimOutcome = "error"
)

type ClaimEvent struct {
	PoolID    pool.ID
	UserID    user.ID
	Requested int
	Granted   int
	Outcome   ClaimOutcome
	At        time.Time
}
