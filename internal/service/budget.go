package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/rates"
)

// BudgetService summarizes multi-currency line items against live rates.
type BudgetService struct {
	rates  RateProvider
	logger *zap.Logger
}

func NewBudgetService(provider RateProvider, logger *zap.Logger) *BudgetService {
	if provider == nil {
		panic("rate provider must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &BudgetService{rates: provider, logger: logger.Named("budget-service")}
}

// CurrencyRates returns the rate table currently in effect.
func (s *BudgetService) CurrencyRates(ctx context.Context) rates.RateTable {
	return s.rates.Rates(ctx)
}

// Summarize totals the items per currency and in the reference currency. It
// never fails: unusable numbers count as zero and unknown currencies convert at 1.
func (s *BudgetService) Summarize(ctx context.Context, req BudgetSummaryRequest) BudgetSummary {
	table := s.rates.Rates(ctx)

	reference := strings.ToUpper(strings.TrimSpace(req.ReferenceCurrency))
	if reference == "" {
		reference = table.Reference
	}
	if reference == "" {
		reference = budget.ReferenceCurrency
	}
	rt := rebase(table.Rates, table.Reference, reference)

	summary := budget.Summarize(req.Items, rt, reference, req.BudgetLimit.Float64())
	if summary.BudgetExceeded {
		s.logger.Info("budget exceeded",
			zap.Float64("total", summary.ReferenceTotal),
			zap.Float64("limit", summary.BudgetLimit),
			zap.String("reference", reference))
	}

	return BudgetSummary{
		Summary:        summary,
		Rates:          rt,
		RateSource:     table.Source,
		RatesFetchedAt: table.FetchedAt,
	}
}

// rebase re-expresses a table quoted in from as a table quoted in to.
func rebase(rt budget.RateTable, from, to string) budget.RateTable {
	out := rt.Clone()
	if from == "" || from == to {
		return out
	}
	base := budget.ResolveRateOrDefault(rt, to)
	for code := range out {
		out[code] = budget.ResolveRateOrDefault(rt, code) / base
	}
	out[to] = 1.0
	return out
}
