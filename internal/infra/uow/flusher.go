package uow

import (
	"context"
	"log/slog"

	"cdk-distributor/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DirtyFlusher retries a failed registry flush on a cron schedule.
type DirtyFlusher struct {
	cron     *cron.Cron
	registry *Registry
	logger   *slog.Logger
}

func NewDirtyFlusher(registry *Registry, schedule string, logger *slog.Logger) (*DirtyFlusher, error) {
	f := &DirtyFlusher{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		registry: registry,
		logger:   logger,
	}
	if _, err := f.cron.AddFunc(schedule, f.Run); err != nil {
		return nil, errs.Wrapf(err, "invalid dirty retry schedule %q", schedule)
	}
	return f, nil
}

// Run is one scheduled tick.
func (f *DirtyFlusher) Run() {
	if !f.registry.Dirty() {
		return
	}
	if err := f.registry.RetryDirty(context.Background()); err != nil {
		f.logger.Error("background registry flush failed", "error", err.Error())
		return
	}
	f.logger.Info("background registry flush succeeded")
}

func (f *DirtyFlusher) Start() {
	f.cron.Start()
}

// Stop waits for a running tick to finish or ctx to expire.
func (f *DirtyFlusher) Stop(ctx context.Context) error {
	select {
	case <-f.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
