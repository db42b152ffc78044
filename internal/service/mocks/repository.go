package mocks

import (
	"context"
	"errors"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/repository/models"
)

// MockQuestionRepository is a mock implementation of the QuestionRepository interface
// for testing the service layer.
type MockQuestionRepository struct {
	ListScoringTypesFunc func(ctx context.Context) ([]models.ScoringType, error)
	GetScoringTypeFunc   func(ctx context.Context, code string) (models.ScoringType, error)
	ListQuestionsFunc    func(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error)
}

func (m *MockQuestionRepository) ListScoringTypes(ctx context.Context) ([]models.ScoringType, error) {
	if m.ListScoringTypesFunc != nil {
		return m.ListScoringTypesFunc(ctx)
	}
	return nil, errors.New("ListScoringTypesFunc not implemented")
}

func (m *MockQuestionRepository) GetScoringType(ctx context.Context, code string) (models.ScoringType, error) {
	if m.GetScoringTypeFunc != nil {
		return m.GetScoringTypeFunc(ctx, code)
	}
	return models.ScoringType{}, errors.New("GetScoringTypeFunc not implemented")
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, scoringType, activeOnly)
	}
	return nil, errors.New("ListQuestionsFunc not implemented")
}

// MockEvaluationRepository is a mock implementation of the EvaluationRepository interface.
type MockEvaluationRepository struct {
	CreateEvaluationFunc          func(ctx context.Context, e models.Evaluation) error
	GetEvaluationFunc             func(ctx context.Context, id string) (models.Evaluation, error)
	ListEvaluationsBySupplierFunc func(ctx context.Context, supplierID string) ([]models.Evaluation, error)
}

func (m *MockEvaluationRepository) CreateEvaluation(ctx context.Context, e models.Evaluation) error {
	if m.CreateEvaluationFunc != nil {
		return m.CreateEvaluationFunc(ctx, e)
	}
	return errors.New("CreateEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) GetEvaluation(ctx context.Context, id string) (models.Evaluation, error) {
	if m.GetEvaluationFunc != nil {
		return m.GetEvaluationFunc(ctx, id)
	}
	return models.Evaluation{}, errors.New("GetEvaluationFunc not implemented")
}

func (m *MockEvaluationRepository) ListEvaluationsBySupplier(ctx context.Context, supplierID string) ([]models.Evaluation, error) {
	if m.ListEvaluationsBySupplierFunc != nil {
		return m.ListEvaluationsBySupplierFunc(ctx, supplierID)
	}
	return nil, errors.New("ListEvaluationsBySupplierFunc not implemented")
}

// MockRateProvider is a mock implementation of the RateProvider interface. With
// no RatesFunc it serves the built-in fallback table.
type MockRateProvider struct {
	RatesFunc func(ctx context.Context) rates.RateTable
}

func (m *MockRateProvider) Rates(ctx context.Context) rates.RateTable {
	if m.RatesFunc != nil {
		return m.RatesFunc(ctx)
	}
	return rates.RateTable{
		Reference: budget.ReferenceCurrency,
		Rates:     budget.DefaultRates(),
		Source:    rates.SourceFallback,
	}
}
