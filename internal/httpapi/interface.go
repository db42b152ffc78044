package httpapi

import (
	"context"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/service"
)

type EvaluationService interface {
	ScoringTypes(ctx context.Context) ([]service.ScoringTypeInfo, error)
	QuestionBank(ctx context.Context, scoringType string) (evaluation.Bank, error)
	Submit(ctx context.Context, req service.SubmitEvaluationRequest) (service.SubmitResult, error)
	Get(ctx context.Context, id string) (service.EvaluationRecord, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]service.EvaluationRecord, error)
}

type BudgetService interface {
	CurrencyRates(ctx context.Context) rates.RateTable
	Summarize(ctx context.Context, req service.BudgetSummaryRequest) service.BudgetSummary
}

type SessionService interface {
	Start(ctx context.Context, req service.StartSessionRequest) (service.SessionView, error)
	Get(ctx context.Context, id string) (service.SessionView, error)
	Answer(ctx context.Context, id, questionID, value, comment string) (service.SessionView, error)
	UpdateHeader(ctx context.Context, id string, header service.EvaluationHeader) (service.SessionView, error)
	Next(ctx context.Context, id string) (service.SessionView, error)
	Back(ctx context.Context, id string) (service.SessionView, error)
	ChangeType(ctx context.Context, id, scoringType string) (service.SessionView, error)
	Submit(ctx context.Context, id string) (service.SubmitResult, error)
	Discard(ctx context.Context, id string) error
}
