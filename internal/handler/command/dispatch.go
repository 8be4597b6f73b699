package command

import (
	"context"
	"fmt"
	"log/slog"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/internal/usecase/queries"
)

const (
	msgAdminOnly       = "This command is restricted to admins in a private chat."
	msgNotFound        = "Pool not found."
	msgAlreadyExists   = "Pool already exists. Use overwrite=true to replace it."
	msgIngestionFailed = "Failed to fetch the code list, please check the URL."
	msgExhausted       = "All codes have been claimed."
	msgQuotaReached    = "You have reached the claim limit for this pool."
	msgNotSaved        = "The change is applied but could not be saved yet; it will be retried."
	msgInternal        = "Something went wrong, please try again later."
)

type Dispatcher struct {
	claims  commands.ClaimCommands
	pools   commands.PoolCommands
	queries queries.PoolQueries
	logger  *slog.Logger
}

func NewDispatcher(claims commands.ClaimCommands, pools commands.PoolCommands, q queries.PoolQueries, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		claims:  claims,
		pools:   pools,
		queries: q,
		logger:  logger,
	}
}

// Execute parses text and runs it on behalf of identity. The returned lines
// are meant to be sent back to the chat one message each.
func (d *Dispatcher) Execute(ctx context.Context, identity user.Identity, text string) []string {
	cmd, err := Parse(text)
	if err != nil {
		var ue *UsageError
		if errs.As(err, &ue) && ue.Kind.AdminOnly() && !identity.CanAdminister() {
			return []string{msgAdminOnly}
		}
		return []string{err.Error()}
	}

	if cmd.Kind().AdminOnly() && !identity.CanAdminister() {
		return []string{msgAdminOnly}
	}

	switch c := cmd.(type) {
	case Help:
		return []string{HelpText}
	case Claim:
		return d.claim(ctx, identity, c)
	case New:
		return d.create(ctx, c)
	case Add:
		return d.add(ctx, c)
	case Config:
		return d.configure(ctx, c)
	case Details:
		return d.details(ctx, c)
	default:
		return []string{usageRoot}
	}
}

func (d *Dispatcher) claim(ctx context.Context, identity user.Identity, c Claim) []string {
	res, err := d.claims.Claim(ctx, commands.ClaimParams{PoolID: c.PoolID, UserID: identity.ID, Count: c.Count})
	if err != nil && (res == nil || len(res.Codes) == 0) {
		return []string{d.render(err, "claim")}
	}

	lines := make([]string, 0, len(res.Codes)+1)
	for _, code := range res.Codes {
		lines = append(lines, "Your CDK: "+code)
	}
	if err != nil {
		lines = append(lines, d.render(err, "claim"))
	}
	return lines
}

func (d *Dispatcher) create(ctx context.Context, c New) []string {
	summary, err := d.pools.CreatePool(ctx, commands.CreatePoolParams{
		ID:          c.PoolID,
		SourceURL:   c.SourceURL,
		Name:        c.Name,
		AllowRepeat: c.AllowRepeat,
		Shuffle:     c.Shuffle,
		Overwrite:   c.Overwrite,
		MaxPerUser:  c.MaxPerUser,
	})
	if summary == nil {
		return []string{d.render(err, "new")}
	}
	lines := []string{fmt.Sprintf("Created pool %s, total: %d.", c.PoolID, summary.Total)}
	if err != nil {
		lines = append(lines, d.render(err, "new"))
	}
	return lines
}

func (d *Dispatcher) add(ctx context.Context, c Add) []string {
	total, err := d.pools.AppendCodes(ctx, commands.AppendCodesParams{
		ID:        c.PoolID,
		SourceURL: c.SourceURL,
		Shuffle:   c.Shuffle,
		Overwrite: c.Overwrite,
	})
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		return []string{d.render(err, "add")}
	}
	lines := []string{fmt.Sprintf("Pool %s updated, total: %d.", c.PoolID, total)}
	if err != nil {
		lines = append(lines, d.render(err, "add"))
	}
	return lines
}

func (d *Dispatcher) configure(ctx context.Context, c Config) []string {
	err := d.pools.Configure(ctx, commands.ConfigurePoolParams{ID: c.PoolID, Patch: c.Patch})
	if err != nil && !errs.Is(err, errs.ErrPersistenceFailed) {
		return []string{d.render(err, "config")}
	}
	lines := []string{fmt.Sprintf("Pool %s configuration updated.", c.PoolID)}
	if err != nil {
		lines = append(lines, d.render(err, "config"))
	}
	return lines
}

func (d *Dispatcher) details(ctx context.Context, c Details) []string {
	v, err := d.queries.Describe(ctx, c.PoolID)
	if err != nil {
		return []string{d.render(err, "details")}
	}
	return []string{fmt.Sprintf(
		"Name: %s\nID: %s\nTotal: %d\nRemaining: %d\nClaimed: %d\nMax per user: %d\nAllow duplicate: %t",
		v.Name, v.ID, v.Total, v.Remaining, v.Claimed, v.MaxPerUser, v.AllowRepeat,
	)}
}

func (d *Dispatcher) render(err error, op string) string {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		return msgNotFound
	case errs.Is(err, errs.ErrAlreadyExists):
		return msgAlreadyExists
	case errs.Is(err, errs.ErrIngestionFailed):
		return msgIngestionFailed
	case errs.Is(err, errs.ErrExhausted):
		return msgExhausted
	case errs.Is(err, errs.ErrQuotaReached):
		return msgQuotaReached
	case errs.Is(err, errs.ErrPersistenceFailed):
		return msgNotSaved
	case errs.Is(err, errs.ErrValidation):
		return "Invalid request: " + err.Error()
	default:
		d.logger.Error("command failed", slog.String("op", op), slog.String("error", err.Error()))
		return msgInternal
	}
}
