package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type RateSnapshotPruner interface {
	PruneRateSnapshots(ctx context.Context, keep int) (int64, error)
}

// PruneRateSnapshotsJob trims the rate snapshot history to the newest keep
// rows per reference currency.
type PruneRateSnapshotsJob struct {
	snapshots RateSnapshotPruner
	keep      int
	log       *zap.Logger
}

func NewPruneRateSnapshotsJob(p RateSnapshotPruner, keep int, log *zap.Logger) *PruneRateSnapshotsJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &PruneRateSnapshotsJob{snapshots: p, keep: keep, log: log.Named("prune-rate-snapshots")}
}

func (j *PruneRateSnapshotsJob) Name() string { return "prune_rate_snapshots" }

func (j *PruneRateSnapshotsJob) Run(ctx context.Context) error {
	n, err := j.snapshots.PruneRateSnapshots(ctx, j.keep)
	if err != nil {
		return fmt.Errorf("prune rate snapshots: %w", err)
	}
	if n > 0 {
		j.log.Info("old rate snapshots pruned", zap.Int64("count", n), zap.Int("keep", j.keep))
	}
	return nil
}
