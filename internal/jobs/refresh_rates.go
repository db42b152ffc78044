package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/rates"
)

type RateRefresher interface {
	Refresh(ctx context.Context) (rates.RateTable, error)
}

// RefreshRatesJob pulls live exchange rates so that requests rarely wait on
// the upstream API.
type RefreshRatesJob struct {
	rates RateRefresher
	log   *zap.Logger
}

func NewRefreshRatesJob(r RateRefresher, log *zap.Logger) *RefreshRatesJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &RefreshRatesJob{rates: r, log: log.Named("refresh-rates")}
}

func (j *RefreshRatesJob) Name() string { return "refresh_rates" }

func (j *RefreshRatesJob) Run(ctx context.Context) error {
	table, err := j.rates.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh rates: %w", err)
	}
	j.log.Info("exchange rates refreshed",
		zap.String("reference", table.Reference),
		zap.Int("currencies", len(table.Rates)))
	return nil
}
