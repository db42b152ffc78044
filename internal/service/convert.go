package service

import (
	"database/sql"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/repository/models"
)

func nullScore(s evaluation.Score) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(s.Value), Valid: s.Valid}
}

func scoreOf(n sql.NullInt64) evaluation.Score {
	if !n.Valid {
		return evaluation.NoScore
	}
	return evaluation.NewScore(int(n.Int64))
}

func toRecord(e models.Evaluation) EvaluationRecord {
	overall := scoreOf(e.OverallScore)
	weighted := scoreOf(e.WeightedScore)
	canonical := overall
	if e.WeightsApplied {
		// overall_score holds the canonical value; recompute the plain mean from the sections.
		overall = evaluation.ComputeOverallScore([]evaluation.Score{
			scoreOf(e.ScoreA), scoreOf(e.ScoreB), scoreOf(e.ScoreC),
		})
	}

	r := EvaluationRecord{
		ID:             e.ID,
		OrderID:        e.OrderID,
		SupplierID:     e.SupplierID,
		SupplierName:   e.SupplierName,
		EvaluationDate: e.EvaluationDate,
		ConsultingArea: e.ConsultingArea,
		EvaluatingUnit: e.EvaluatingUnit,
		ScoringType:    e.ScoringType,
		Overall:        overall,
		Weighted:       weighted,
		Score:          canonical,
		WeightsApplied: e.WeightsApplied,
		CreatedAt:      e.CreatedAt,
	}

	for _, sec := range []struct {
		section evaluation.Section
		score   sql.NullInt64
	}{
		{evaluation.SectionA, e.ScoreA},
		{evaluation.SectionB, e.ScoreB},
		{evaluation.SectionC, e.ScoreC},
	} {
		sc := scoreOf(sec.score)
		r.Sections = append(r.Sections, SectionScore{Section: sec.section, Score: sc, Display: sc.String()})
	}

	for _, a := range e.Answers {
		r.Answers = append(r.Answers, AnswerInput{
			QuestionID: a.QuestionID,
			Section:    a.Section,
			Value:      a.Value,
			Comment:    a.Comment,
		})
	}
	return r
}
