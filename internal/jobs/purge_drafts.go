package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type DraftPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeDraftsJob removes expired drafts from the sqlite draft store. Redis
// expires its keys on its own and needs no such job.
type PurgeDraftsJob struct {
	drafts DraftPurger
	log    *zap.Logger
}

func NewPurgeDraftsJob(d DraftPurger, log *zap.Logger) *PurgeDraftsJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &PurgeDraftsJob{drafts: d, log: log.Named("purge-drafts")}
}

func (j *PurgeDraftsJob) Name() string { return "purge_drafts" }

func (j *PurgeDraftsJob) Run(ctx context.Context) error {
	n, err := j.drafts.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge drafts: %w", err)
	}
	if n > 0 {
		j.log.Info("expired drafts purged", zap.Int64("count", n))
	}
	return nil
}
