package mocks

import (
	"context"
	"errors"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/service"
)

// MockEvaluationService is a mock implementation of the EvaluationService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockEvaluationService struct {
	ScoringTypesFunc   func(ctx context.Context) ([]service.ScoringTypeInfo, error)
	QuestionBankFunc   func(ctx context.Context, scoringType string) (evaluation.Bank, error)
	SubmitFunc         func(ctx context.Context, req service.SubmitEvaluationRequest) (service.SubmitResult, error)
	GetFunc            func(ctx context.Context, id string) (service.EvaluationRecord, error)
	ListBySupplierFunc func(ctx context.Context, supplierID string) ([]service.EvaluationRecord, error)
}

// ScoringTypes implements the EvaluationService interface
func (m *MockEvaluationService) ScoringTypes(ctx context.Context) ([]service.ScoringTypeInfo, error) {
	if m.ScoringTypesFunc != nil {
		return m.ScoringTypesFunc(ctx)
	}
	return nil, errors.New("ScoringTypesFunc not implemented")
}

// QuestionBank implements the EvaluationService interface
func (m *MockEvaluationService) QuestionBank(ctx context.Context, scoringType string) (evaluation.Bank, error) {
	if m.QuestionBankFunc != nil {
		return m.QuestionBankFunc(ctx, scoringType)
	}
	return evaluation.Bank{}, errors.New("QuestionBankFunc not implemented")
}

// Submit implements the EvaluationService interface
func (m *MockEvaluationService) Submit(ctx context.Context, req service.SubmitEvaluationRequest) (service.SubmitResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return service.SubmitResult{}, errors.New("SubmitFunc not implemented")
}

// Get implements the EvaluationService interface
func (m *MockEvaluationService) Get(ctx context.Context, id string) (service.EvaluationRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return service.EvaluationRecord{}, errors.New("GetFunc not implemented")
}

// ListBySupplier implements the REST gateway's evaluation service interface
func (m *MockEvaluationService) ListBySupplier(ctx context.Context, supplierID string) ([]service.EvaluationRecord, error) {
	if m.ListBySupplierFunc != nil {
		return m.ListBySupplierFunc(ctx, supplierID)
	}
	return nil, errors.New("ListBySupplierFunc not implemented")
}

// MockBudgetService is a mock implementation of the BudgetService interface.
type MockBudgetService struct {
	CurrencyRatesFunc func(ctx context.Context) rates.RateTable
	SummarizeFunc     func(ctx context.Context, req service.BudgetSummaryRequest) service.BudgetSummary
}

// CurrencyRates implements the BudgetService interface
func (m *MockBudgetService) CurrencyRates(ctx context.Context) rates.RateTable {
	if m.CurrencyRatesFunc != nil {
		return m.CurrencyRatesFunc(ctx)
	}
	return rates.RateTable{}
}

// Summarize implements the BudgetService interface
func (m *MockBudgetService) Summarize(ctx context.Context, req service.BudgetSummaryRequest) service.BudgetSummary {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, req)
	}
	return service.BudgetSummary{}
}
