package commands

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock

import (
	"context"

	"cdk-distributor/internal/usecase/shared"
)

// CodeSource fetches a raw candidate code list. It is called outside the
// registry lock and never retried by the use cases.
type CodeSource interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// ClaimRecorder receives every claim attempt. Recording is best effort.
type ClaimRecorder interface {
	RecordClaim(ctx context.Context, ev shared.ClaimEvent) error
}
