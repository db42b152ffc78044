package service

import (
	"context"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/repository/models"
)

// QuestionRepository reads scoring types and question banks.
type QuestionRepository interface {
	ListScoringTypes(ctx context.Context) ([]models.ScoringType, error)
	GetScoringType(ctx context.Context, code string) (models.ScoringType, error)
	ListQuestions(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error)
}

// EvaluationRepository stores submitted evaluations.
type EvaluationRepository interface {
	CreateEvaluation(ctx context.Context, e models.Evaluation) error
	GetEvaluation(ctx context.Context, id string) (models.Evaluation, error)
	ListEvaluationsBySupplier(ctx context.Context, supplierID string) ([]models.Evaluation, error)
}

// RateProvider resolves the current exchange rate table. It never fails.
type RateProvider interface {
	Rates(ctx context.Context) rates.RateTable
}

// Evaluations is what the session controller needs from the evaluation service.
type Evaluations interface {
	QuestionBank(ctx context.Context, scoringType string) (evaluation.Bank, error)
	Submit(ctx context.Context, req SubmitEvaluationRequest) (SubmitResult, error)
}
