package models

import (
	"database/sql"
	"time"
)

type ScoringType struct {
	Code    string
	Name    string
	WeightA float64
	WeightB float64
	WeightC float64
}

type QuestionOption struct {
	OptionID  string
	Label     string
	SortOrder int
}

type Question struct {
	ID          string
	ScoringType string
	Section     string
	Text        string
	Type        string
	SortOrder   int
	Active      bool
	Options     []QuestionOption
}

type EvaluationAnswer struct {
	QuestionID string
	Section    string
	Value      string
	Comment    string
}

type Evaluation struct {
	ID             string
	OrderID        string
	SupplierID     string
	SupplierName   string
	EvaluationDate time.Time
	ConsultingArea string
	EvaluatingUnit string
	ScoringType    string
	ScoreA         sql.NullInt64
	ScoreB         sql.NullInt64
	ScoreC         sql.NullInt64
	OverallScore   sql.NullInt64
	WeightedScore  sql.NullInt64
	WeightsApplied bool
	CreatedAt      time.Time
	Answers        []EvaluationAnswer
}

type RateSnapshot struct {
	Reference string
	Rates     map[string]float64
	FetchedAt time.Time
}
