package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/repository"
	"github.com/godilite/procurement-server/internal/repository/models"
)

const (
	dbTimeout = 1 * time.Second
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrStaticBank     = errors.New("evaluation questions could not be loaded from the database; submission is disabled")
	ErrStorageFailure = errors.New("storage failure")
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02.01.2006"}

// EvaluationService serves question banks and records supplier evaluations.
type EvaluationService struct {
	questions    QuestionRepository
	evaluations  EvaluationRepository
	applyWeights bool
	logger       *zap.Logger
	now          func() time.Time
	newID        func() string
}

// NewEvaluationService creates a new EvaluationService. With applyWeights the
// weighted mean becomes the canonical overall score.
func NewEvaluationService(questions QuestionRepository, evaluations EvaluationRepository, applyWeights bool, logger *zap.Logger) *EvaluationService {
	if questions == nil || evaluations == nil {
		panic("repositories must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &EvaluationService{
		questions:    questions,
		evaluations:  evaluations,
		applyWeights: applyWeights,
		logger:       logger.Named("evaluation-service"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// ScoringTypes lists the configured scoring types with their section weights.
func (s *EvaluationService) ScoringTypes(ctx context.Context) ([]ScoringTypeInfo, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.questions.ListScoringTypes(dbCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return StaticScoringTypes(), nil
	}

	out := make([]ScoringTypeInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScoringTypeInfo{Code: r.Code, Name: r.Name, Weights: weightsOf(r)})
	}
	return out, nil
}

// QuestionBank returns the active questions for scoringType. If the database
// cannot serve them the built-in bank is returned with Source static.
func (s *EvaluationService) QuestionBank(ctx context.Context, scoringType string) (evaluation.Bank, error) {
	scoringType = strings.TrimSpace(scoringType)
	if scoringType == "" {
		return evaluation.Bank{}, fmt.Errorf("%w: scoring type is required", ErrInvalidInput)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.questions.ListQuestions(dbCtx, scoringType, true)
	switch {
	case err != nil:
		s.logger.Warn("question bank unavailable, using static bank",
			zap.String("scoringType", scoringType),
			zap.Error(err))
	case len(rows) == 0:
		s.logger.Info("no questions configured, using static bank", zap.String("scoringType", scoringType))
	default:
		return evaluation.Bank{
			ScoringType: scoringType,
			Source:      evaluation.SourceDB,
			Questions:   s.toQuestions(rows),
		}, nil
	}

	bank, ok := staticBank(scoringType)
	if !ok {
		return evaluation.Bank{}, fmt.Errorf("%w: scoring type %q", ErrNotFound, scoringType)
	}
	return bank, nil
}

func (s *EvaluationService) toQuestions(rows []models.Question) []evaluation.Question {
	out := make([]evaluation.Question, 0, len(rows))
	for _, r := range rows {
		section, err := evaluation.ParseSection(r.Section)
		if err != nil {
			s.logger.Warn("skipping question", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		typ, err := evaluation.ParseQuestionType(r.Type)
		if err != nil {
			s.logger.Warn("skipping question", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		q := evaluation.Question{
			ID:      r.ID,
			Text:    r.Text,
			Type:    typ,
			Section: section,
			Active:  r.Active,
		}
		for _, o := range r.Options {
			q.Options = append(q.Options, evaluation.Option{ID: o.OptionID, Label: o.Label})
		}
		out = append(out, q)
	}
	return out
}

func weightsOf(st models.ScoringType) evaluation.Weights {
	w := evaluation.Weights{}
	if st.WeightA > 0 {
		w[evaluation.SectionA] = st.WeightA
	}
	if st.WeightB > 0 {
		w[evaluation.SectionB] = st.WeightB
	}
	if st.WeightC > 0 {
		w[evaluation.SectionC] = st.WeightC
	}
	if len(w) == 0 {
		return nil
	}
	return w
}

func (s *EvaluationService) weights(ctx context.Context, scoringType string) (evaluation.Weights, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	st, err := s.questions.GetScoringType(dbCtx, scoringType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return weightsOf(st), nil
}

func parseEvaluationDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: evaluation date %q", ErrInvalidInput, raw)
}

// validateSubmission checks the request against the bank and returns the answers keyed by
// question id.
func validateSubmission(req SubmitEvaluationRequest, bank evaluation.Bank) (evaluation.Answers, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.SupplierID) == "" {
		return nil, fmt.Errorf("%w: supplierId is required", ErrInvalidInput)
	}
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", ErrInvalidInput)
	}

	answers := make(evaluation.Answers, len(req.Answers))
	for _, a := range req.Answers {
		q, ok := bank.Lookup(a.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %q", ErrInvalidInput, a.QuestionID)
		}
		if a.Section != "" && evaluation.Section(a.Section) != q.Section {
			return nil, fmt.Errorf("%w: question %q belongs to section %s, not %s",
				ErrInvalidInput, a.QuestionID, q.Section, a.Section)
		}
		if _, dup := answers[a.QuestionID]; dup {
			return nil, fmt.Errorf("%w: duplicate answer for question %q", ErrInvalidInput, a.QuestionID)
		}
		answers[a.QuestionID] = evaluation.Answer{Value: a.Value, Comment: a.Comment}
	}
	return answers, nil
}

// Submit validates and scores an evaluation and stores it with its answers.
func (s *EvaluationService) Submit(ctx context.Context, req SubmitEvaluationRequest) (SubmitResult, error) {
	bank, err := s.QuestionBank(ctx, req.ScoringType)
	if err != nil {
		return SubmitResult{}, err
	}
	if !bank.Authoritative() {
		return SubmitResult{}, ErrStaticBank
	}

	answers, err := validateSubmission(req, bank)
	if err != nil {
		return SubmitResult{}, err
	}

	now := s.now()
	evalDate, err := parseEvaluationDate(req.EvaluationDate, now)
	if err != nil {
		return SubmitResult{}, err
	}

	weights, err := s.weights(ctx, bank.ScoringType)
	if err != nil {
		return SubmitResult{}, err
	}

	result := evaluation.Evaluate(bank.Questions, answers, weights)
	canonical := result.Overall
	applied := s.applyWeights && weights != nil
	if applied {
		canonical = result.WeightedOverall
	}

	record := models.Evaluation{
		ID:             s.newID(),
		OrderID:        strings.TrimSpace(req.OrderID),
		SupplierID:     strings.TrimSpace(req.SupplierID),
		SupplierName:   strings.TrimSpace(req.SupplierName),
		EvaluationDate: evalDate,
		ConsultingArea: req.ConsultingArea,
		EvaluatingUnit: req.EvaluatingUnit,
		ScoringType:    bank.ScoringType,
		OverallScore:   nullScore(canonical),
		WeightedScore:  nullScore(result.WeightedOverall),
		WeightsApplied: applied,
		CreatedAt:      now.UTC(),
	}
	for _, sec := range result.Sections {
		switch sec.Section {
		case evaluation.SectionA:
			record.ScoreA = nullScore(sec.Score)
		case evaluation.SectionB:
			record.ScoreB = nullScore(sec.Score)
		case evaluation.SectionC:
			record.ScoreC = nullScore(sec.Score)
		}
	}
	for _, a := range req.Answers {
		q, _ := bank.Lookup(a.QuestionID)
		record.Answers = append(record.Answers, models.EvaluationAnswer{
			QuestionID: a.QuestionID,
			Section:    string(q.Section),
			Value:      strings.TrimSpace(a.Value),
			Comment:    a.Comment,
		})
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.evaluations.CreateEvaluation(dbCtx, record); err != nil {
		s.logger.Error("failed to store evaluation", zap.String("orderId", record.OrderID), zap.Error(err))
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info("evaluation recorded",
		zap.String("id", record.ID),
		zap.String("supplierId", record.SupplierID),
		zap.String("scoringType", record.ScoringType),
		zap.Stringer("score", canonical),
		zap.Bool("weightsApplied", applied))

	return SubmitResult{
		ID:              record.ID,
		Sections:        result.Sections,
		Overall:         result.Overall,
		WeightedOverall: result.WeightedOverall,
		Score:           canonical,
		ScoreDisplay:    canonical.String(),
		WeightsApplied:  applied,
	}, nil
}

// Get returns a stored evaluation with its answers.
func (s *EvaluationService) Get(ctx context.Context, id string) (EvaluationRecord, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	e, err := s.evaluations.GetEvaluation(dbCtx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return EvaluationRecord{}, fmt.Errorf("%w: evaluation %q", ErrNotFound, id)
	}
	if err != nil {
		return EvaluationRecord{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return toRecord(e), nil
}

// ListBySupplier returns a supplier's evaluations, newest first, without answers.
func (s *EvaluationService) ListBySupplier(ctx context.Context, supplierID string) ([]EvaluationRecord, error) {
	if strings.TrimSpace(supplierID) == "" {
		return nil, fmt.Errorf("%w: supplierId is required", ErrInvalidInput)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.evaluations.ListEvaluationsBySupplier(dbCtx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	out := make([]EvaluationRecord, 0, len(rows))
	for _, e := range rows {
		out = append(out, toRecord(e))
	}
	return out, nil
}
