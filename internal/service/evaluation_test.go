package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/repository"
	"github.com/godilite/procurement-server/internal/repository/models"
	"github.com/godilite/procurement-server/internal/service/mocks"
)

func malzemeQuestions() []models.Question {
	return []models.Question{
		{ID: "m-a1", ScoringType: "malzeme", Section: "A", Text: "Kalite", Type: "rating", Active: true},
		{ID: "m-a2", ScoringType: "malzeme", Section: "A", Text: "Ambalaj", Type: "dropdown", Active: true,
			Options: []models.QuestionOption{{OptionID: "o1", Label: "Çok iyi"}, {OptionID: "o3", Label: "Orta"}}},
		{ID: "m-b1", ScoringType: "malzeme", Section: "B", Text: "Teslimat", Type: "rating", Active: true},
		{ID: "m-c1", ScoringType: "malzeme", Section: "C", Text: "Görüş", Type: "text", Active: true},
	}
}

func malzemeRepo() *mocks.MockQuestionRepository {
	return &mocks.MockQuestionRepository{
		ListQuestionsFunc: func(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
			if scoringType != "malzeme" {
				return nil, nil
			}
			return malzemeQuestions(), nil
		},
		GetScoringTypeFunc: func(ctx context.Context, code string) (models.ScoringType, error) {
			if code != "malzeme" {
				return models.ScoringType{}, repository.ErrNotFound
			}
			return models.ScoringType{Code: "malzeme", Name: "Malzeme", WeightA: 0.5, WeightB: 0.3, WeightC: 0.2}, nil
		},
	}
}

func newTestEvaluationService(q QuestionRepository, e EvaluationRepository, applyWeights bool) *EvaluationService {
	s := NewEvaluationService(q, e, applyWeights, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "ev-fixed" }
	return s
}

func validRequest() SubmitEvaluationRequest {
	return SubmitEvaluationRequest{
		EvaluationHeader: EvaluationHeader{
			OrderID:        "PO-1",
			SupplierID:     "sup-1",
			SupplierName:   "Anadolu Tedarik",
			EvaluationDate: "2026-10-01",
		},
		ScoringType: "malzeme",
		Answers: []AnswerInput{
			{QuestionID: "m-a1", Section: "A", Value: "5"},
			{QuestionID: "m-a2", Section: "A", Value: "o3"},
		},
	}
}

func TestNewEvaluationService(t *testing.T) {
	t.Run("nil repositories panic", func(t *testing.T) {
		assert.Panics(t, func() {
			NewEvaluationService(nil, &mocks.MockEvaluationRepository{}, false, zap.NewNop())
		})
		assert.Panics(t, func() {
			NewEvaluationService(&mocks.MockQuestionRepository{}, nil, false, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		s := NewEvaluationService(&mocks.MockQuestionRepository{}, &mocks.MockEvaluationRepository{}, false, nil)
		assert.NotNil(t, s.logger)
	})
}

func TestQuestionBank(t *testing.T) {
	ctx := context.Background()

	t.Run("database bank", func(t *testing.T) {
		s := newTestEvaluationService(malzemeRepo(), &mocks.MockEvaluationRepository{}, false)

		bank, err := s.QuestionBank(ctx, "malzeme")
		require.NoError(t, err)
		assert.Equal(t, evaluation.SourceDB, bank.Source)
		assert.True(t, bank.Authoritative())
		require.Len(t, bank.Questions, 4)
		assert.Equal(t, evaluation.QuestionDropdown, bank.Questions[1].Type)
		assert.Equal(t, []evaluation.Option{{ID: "o1", Label: "Çok iyi"}, {ID: "o3", Label: "Orta"}}, bank.Questions[1].Options)
	})

	t.Run("storage failure falls back to static bank", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListQuestionsFunc: func(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
				return nil, errors.New("database is locked")
			},
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		bank, err := s.QuestionBank(ctx, "hizmet")
		require.NoError(t, err)
		assert.Equal(t, evaluation.SourceStatic, bank.Source)
		assert.False(t, bank.Authoritative())
		assert.NotEmpty(t, bank.Questions)
	})

	t.Run("empty bank falls back to static bank", func(t *testing.T) {
		s := newTestEvaluationService(malzemeRepo(), &mocks.MockEvaluationRepository{}, false)

		bank, err := s.QuestionBank(ctx, "danismanlik")
		require.NoError(t, err)
		assert.Equal(t, evaluation.SourceStatic, bank.Source)
	})

	t.Run("unknown type without static bank", func(t *testing.T) {
		s := newTestEvaluationService(malzemeRepo(), &mocks.MockEvaluationRepository{}, false)

		_, err := s.QuestionBank(ctx, "yazilim")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank type", func(t *testing.T) {
		s := newTestEvaluationService(malzemeRepo(), &mocks.MockEvaluationRepository{}, false)

		_, err := s.QuestionBank(ctx, "  ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rows with unknown section are skipped", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListQuestionsFunc: func(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
				return []models.Question{
					{ID: "ok", Section: "A", Type: "rating", Active: true},
					{ID: "bad", Section: "D", Type: "rating", Active: true},
				}, nil
			},
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		bank, err := s.QuestionBank(ctx, "malzeme")
		require.NoError(t, err)
		require.Len(t, bank.Questions, 1)
		assert.Equal(t, "ok", bank.Questions[0].ID)
	})
}

func TestScoringTypes(t *testing.T) {
	ctx := context.Background()

	t.Run("from storage with weights", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListScoringTypesFunc: func(ctx context.Context) ([]models.ScoringType, error) {
				return []models.ScoringType{
					{Code: "hizmet", Name: "Hizmet"},
					{Code: "malzeme", Name: "Malzeme", WeightA: 0.5, WeightB: 0.5},
				}, nil
			},
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		types, err := s.ScoringTypes(ctx)
		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Nil(t, types[0].Weights)
		assert.Equal(t, evaluation.Weights{evaluation.SectionA: 0.5, evaluation.SectionB: 0.5}, types[1].Weights)
	})

	t.Run("empty table serves built-in types", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListScoringTypesFunc: func(ctx context.Context) ([]models.ScoringType, error) { return nil, nil },
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		types, err := s.ScoringTypes(ctx)
		require.NoError(t, err)
		assert.Len(t, types, 3)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListScoringTypesFunc: func(ctx context.Context) ([]models.ScoringType, error) {
				return nil, errors.New("disk I/O error")
			},
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		_, err := s.ScoringTypes(ctx)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("scores and stores the evaluation", func(t *testing.T) {
		var stored models.Evaluation
		evals := &mocks.MockEvaluationRepository{
			CreateEvaluationFunc: func(ctx context.Context, e models.Evaluation) error {
				stored = e
				return nil
			},
		}
		s := newTestEvaluationService(malzemeRepo(), evals, false)

		res, err := s.Submit(ctx, validRequest())
		require.NoError(t, err)

		assert.Equal(t, "ev-fixed", res.ID)
		assert.Equal(t, evaluation.NewScore(80), res.Score)
		assert.Equal(t, "80", res.ScoreDisplay)
		assert.False(t, res.WeightsApplied)
		require.Len(t, res.Sections, 3)
		assert.Equal(t, "80", res.Sections[0].Display)
		assert.Equal(t, evaluation.NoScoreDisplay, res.Sections[1].Display)

		assert.Equal(t, "PO-1", stored.OrderID)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), stored.EvaluationDate)
		assert.Equal(t, int64(80), stored.ScoreA.Int64)
		assert.True(t, stored.ScoreA.Valid)
		assert.False(t, stored.ScoreB.Valid)
		assert.False(t, stored.ScoreC.Valid)
		assert.Equal(t, int64(80), stored.OverallScore.Int64)
		assert.Len(t, stored.Answers, 2)
	})

	t.Run("weights applied when enabled", func(t *testing.T) {
		var stored models.Evaluation
		evals := &mocks.MockEvaluationRepository{
			CreateEvaluationFunc: func(ctx context.Context, e models.Evaluation) error {
				stored = e
				return nil
			},
		}
		s := newTestEvaluationService(malzemeRepo(), evals, true)

		req := validRequest()
		req.Answers = append(req.Answers, AnswerInput{QuestionID: "m-b1", Section: "B", Value: "2"})

		res, err := s.Submit(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, evaluation.NewScore(60), res.Overall)
		assert.Equal(t, evaluation.NewScore(65), res.WeightedOverall)
		assert.Equal(t, evaluation.NewScore(65), res.Score)
		assert.True(t, res.WeightsApplied)
		assert.Equal(t, int64(65), stored.OverallScore.Int64)
		assert.Equal(t, int64(65), stored.WeightedScore.Int64)
		assert.True(t, stored.WeightsApplied)
	})

	t.Run("static bank is rejected", func(t *testing.T) {
		repo := &mocks.MockQuestionRepository{
			ListQuestionsFunc: func(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
				return nil, errors.New("no such table: evaluation_questions")
			},
		}
		s := newTestEvaluationService(repo, &mocks.MockEvaluationRepository{}, false)

		req := validRequest()
		req.Answers = []AnswerInput{{QuestionID: "s-malzeme-a1", Value: "5"}}

		_, err := s.Submit(ctx, req)
		assert.ErrorIs(t, err, ErrStaticBank)
	})

	invalid := []struct {
		name   string
		mutate func(*SubmitEvaluationRequest)
	}{
		{"missing order id", func(r *SubmitEvaluationRequest) { r.OrderID = "" }},
		{"missing supplier id", func(r *SubmitEvaluationRequest) { r.SupplierID = " " }},
		{"no answers", func(r *SubmitEvaluationRequest) { r.Answers = nil }},
		{"unknown question", func(r *SubmitEvaluationRequest) {
			r.Answers = append(r.Answers, AnswerInput{QuestionID: "nope", Value: "5"})
		}},
		{"section mismatch", func(r *SubmitEvaluationRequest) { r.Answers[0].Section = "B" }},
		{"duplicate answer", func(r *SubmitEvaluationRequest) { r.Answers = append(r.Answers, r.Answers[0]) }},
		{"bad date", func(r *SubmitEvaluationRequest) { r.EvaluationDate = "yesterday" }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestEvaluationService(malzemeRepo(), &mocks.MockEvaluationRepository{}, false)
			req := validRequest()
			tc.mutate(&req)

			_, err := s.Submit(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		evals := &mocks.MockEvaluationRepository{
			CreateEvaluationFunc: func(ctx context.Context, e models.Evaluation) error {
				return errors.New("constraint failed")
			},
		}
		s := newTestEvaluationService(malzemeRepo(), evals, false)

		_, err := s.Submit(ctx, validRequest())
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "constraint failed")
	})
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	stored := models.Evaluation{
		ID:             "ev-1",
		SupplierID:     "sup-1",
		ScoringType:    "malzeme",
		ScoreA:         nullScore(evaluation.NewScore(80)),
		ScoreB:         nullScore(evaluation.NewScore(40)),
		OverallScore:   nullScore(evaluation.NewScore(65)),
		WeightedScore:  nullScore(evaluation.NewScore(65)),
		WeightsApplied: true,
		Answers:        []models.EvaluationAnswer{{QuestionID: "m-a1", Section: "A", Value: "5"}},
	}
	evals := &mocks.MockEvaluationRepository{
		GetEvaluationFunc: func(ctx context.Context, id string) (models.Evaluation, error) {
			if id != "ev-1" {
				return models.Evaluation{}, repository.ErrNotFound
			}
			return stored, nil
		},
		ListEvaluationsBySupplierFunc: func(ctx context.Context, supplierID string) ([]models.Evaluation, error) {
			return []models.Evaluation{stored}, nil
		},
	}
	s := newTestEvaluationService(malzemeRepo(), evals, true)

	t.Run("Get", func(t *testing.T) {
		rec, err := s.Get(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, evaluation.NewScore(65), rec.Score)
		assert.Equal(t, evaluation.NewScore(60), rec.Overall)
		require.Len(t, rec.Sections, 3)
		assert.Equal(t, evaluation.NoScoreDisplay, rec.Sections[2].Display)
		require.Len(t, rec.Answers, 1)
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "ev-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListBySupplier", func(t *testing.T) {
		list, err := s.ListBySupplier(ctx, "sup-1")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = s.ListBySupplier(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
