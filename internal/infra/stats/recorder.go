package stats

import (
	"context"
	"log/slog"

	"cdk-distributor/internal/pkg/errs"
	"cdk-distributor/internal/pkg/metrics"
	"cdk-distributor/internal/usecase/shared"
)

type Recorder interface {
	RecordClaim(ctx context.Context, ev shared.ClaimEvent) error
}

// PrometheusRecorder feeds claim events into the process metrics.
type PrometheusRecorder struct{}

func (PrometheusRecorder) RecordClaim(_ context.Context, ev shared.ClaimEvent) error {
	metrics.RecordClaim(string(ev.PoolID), string(ev.Outcome), ev.Granted)
	return nil
}

// Fanout sends each event to every recorder. Failures are logged and
// combined but never stop the remaining recorders.
type Fanout struct {
	recorders []Recorder
	logger    *slog.Logger
}

func NewFanout(logger *slog.Logger, recorders ...Recorder) *Fanout {
	return &Fanout{recorders: recorders, logger: logger}
}

func (f *Fanout) RecordClaim(ctx context.Context, ev shared.ClaimEvent) error {
	var combined error
	for _, r := range f.recorders {
		if err := r.RecordClaim(ctx, ev); err != nil {
			f.logger.Warn("claim stats not recorded",
				slog.String("pool_id", string(ev.PoolID)),
				slog.String("outcome", string(ev.Outcome)),
				slog.String("error", err.Error()))
			combined = errs.Combine(combined, err)
		}
	}
	return combined
}
