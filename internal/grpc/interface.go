package grpc

import (
	"context"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/service"
	"github.com/godilite/procurement-server/pkg/cache"
)

// Cacher defines the interface for cache operations.
type Cacher = cache.Cacher

type EvaluationService interface {
	ScoringTypes(ctx context.Context) ([]service.ScoringTypeInfo, error)
	QuestionBank(ctx context.Context, scoringType string) (evaluation.Bank, error)
	Submit(ctx context.Context, req service.SubmitEvaluationRequest) (service.SubmitResult, error)
	Get(ctx context.Context, id string) (service.EvaluationRecord, error)
}

type BudgetService interface {
	CurrencyRates(ctx context.Context) rates.RateTable
	Summarize(ctx context.Context, req service.BudgetSummaryRequest) service.BudgetSummary
}
