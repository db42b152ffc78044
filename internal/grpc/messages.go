package grpc

import (
	"time"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/service"
)

type GetCurrencyRatesRequest struct{}

type GetCurrencyRatesResponse struct {
	Reference string           `json:"reference"`
	Rates     budget.RateTable `json:"rates"`
	Source    rates.Source     `json:"source"`
	FetchedAt time.Time        `json:"fetchedAt,omitempty"`
}

type SummarizeBudgetRequest struct {
	service.BudgetSummaryRequest
}

type SummarizeBudgetResponse struct {
	service.BudgetSummary
}

type ListScoringTypesRequest struct{}

type ListScoringTypesResponse struct {
	ScoringTypes []service.ScoringTypeInfo `json:"scoringTypes"`
}

type GetQuestionBankRequest struct {
	ScoringType string `json:"scoringType"`
}

type GetQuestionBankResponse struct {
	evaluation.Bank
}

type SubmitEvaluationRequest struct {
	service.SubmitEvaluationRequest
}

type SubmitEvaluationResponse struct {
	service.SubmitResult
}

type GetEvaluationRequest struct {
	ID string `json:"id"`
}

type GetEvaluationResponse struct {
	Evaluation service.EvaluationRecord `json:"evaluation"`
}
