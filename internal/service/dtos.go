package service

import (
	"time"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/money"
	"github.com/godilite/procurement-server/internal/rates"
)

type ScoringTypeInfo struct {
	Code    string             `json:"code"`
	Name    string             `json:"name"`
	Weights evaluation.Weights `json:"weights,omitempty"`
}

type AnswerInput struct {
	QuestionID string `json:"questionId"`
	Section    string `json:"section"`
	Value      string `json:"value"`
	Comment    string `json:"comment,omitempty"`
}

// EvaluationHeader is the "genel" step of the evaluation form.
type EvaluationHeader struct {
	OrderID        string `json:"orderId" msgpack:"orderId"`
	SupplierID     string `json:"supplierId" msgpack:"supplierId"`
	SupplierName   string `json:"supplierName" msgpack:"supplierName"`
	EvaluationDate string `json:"evaluationDate" msgpack:"evaluationDate"`
	ConsultingArea string `json:"consultingArea" msgpack:"consultingArea"`
	EvaluatingUnit string `json:"evaluatingUnit" msgpack:"evaluatingUnit"`
}

type SubmitEvaluationRequest struct {
	EvaluationHeader
	ScoringType string        `json:"scoringType"`
	Answers     []AnswerInput `json:"answers"`
}

// SubmitResult carries the canonical scores computed on the server.
type SubmitResult struct {
	ID              string                     `json:"id"`
	Sections        []evaluation.SectionResult `json:"sections"`
	Overall         evaluation.Score           `json:"overall"`
	WeightedOverall evaluation.Score           `json:"weightedOverall"`
	Score           evaluation.Score           `json:"score"`
	ScoreDisplay    string                     `json:"scoreDisplay"`
	WeightsApplied  bool                       `json:"weightsApplied"`
}

type SectionScore struct {
	Section evaluation.Section `json:"section"`
	Score   evaluation.Score   `json:"score"`
	Display string             `json:"display"`
}

// EvaluationRecord is a stored evaluation as returned to clients.
type EvaluationRecord struct {
	ID             string           `json:"id"`
	OrderID        string           `json:"orderId"`
	SupplierID     string           `json:"supplierId"`
	SupplierName   string           `json:"supplierName"`
	EvaluationDate time.Time        `json:"evaluationDate"`
	ConsultingArea string           `json:"consultingArea"`
	EvaluatingUnit string           `json:"evaluatingUnit"`
	ScoringType    string           `json:"scoringType"`
	Sections       []SectionScore   `json:"sections"`
	Overall        evaluation.Score `json:"overall"`
	Weighted       evaluation.Score `json:"weightedOverall"`
	Score          evaluation.Score `json:"score"`
	WeightsApplied bool             `json:"weightsApplied"`
	Answers        []AnswerInput    `json:"answers,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type BudgetSummaryRequest struct {
	Items             []budget.LineItem `json:"items"`
	ReferenceCurrency string            `json:"referenceCurrency,omitempty"`
	BudgetLimit       money.Amount      `json:"budgetLimit,omitempty"`
}

type BudgetSummary struct {
	budget.Summary
	Rates          budget.RateTable `json:"rates"`
	RateSource     rates.Source     `json:"rateSource"`
	RatesFetchedAt time.Time        `json:"ratesFetchedAt,omitempty"`
}

type StartSessionRequest struct {
	EvaluationHeader
	ScoringType string `json:"scoringType"`
}

// SessionView is the rendered state of an evaluation session.
type SessionView struct {
	ID                  string                     `json:"id"`
	ScoringType         string                     `json:"scoringType"`
	Source              evaluation.Source          `json:"source"`
	Header              EvaluationHeader           `json:"header"`
	Step                evaluation.Step            `json:"step"`
	StepIndex           int                        `json:"stepIndex"`
	Steps               []evaluation.Step          `json:"steps"`
	Questions           []evaluation.Question      `json:"questions,omitempty"`
	Answers             evaluation.Answers         `json:"answers"`
	Sections            []evaluation.SectionResult `json:"sections"`
	Overall             evaluation.Score           `json:"overall"`
	OverallDisplay      string                     `json:"overallDisplay"`
	CanSubmit           bool                       `json:"canSubmit"`
	SubmitBlockedReason string                     `json:"submitBlockedReason,omitempty"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}
