package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/godilite/procurement-server/internal/repository/models"
)

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// CreateEvaluation stores the evaluation and all of its answers in one transaction.
func (r *EvaluationRepository) CreateEvaluation(ctx context.Context, e models.Evaluation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin CreateEvaluation: %w", err)
	}
	defer tx.Rollback()

	const insertEvaluation = `
		INSERT INTO evaluations (
			id, order_id, supplier_id, supplier_name, evaluation_date, consulting_area,
			evaluating_unit, scoring_type, score_a, score_b, score_c, overall_score,
			weighted_score, weights_applied, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertEvaluation,
		e.ID, e.OrderID, e.SupplierID, e.SupplierName, e.EvaluationDate.UTC(), e.ConsultingArea,
		e.EvaluatingUnit, e.ScoringType, e.ScoreA, e.ScoreB, e.ScoreC, e.OverallScore,
		e.WeightedScore, boolToInt(e.WeightsApplied), e.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evaluation_answers (evaluation_id, question_id, section, value, comment)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare answer insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range e.Answers {
		if _, err := stmt.ExecContext(ctx, e.ID, a.QuestionID, a.Section, a.Value, a.Comment); err != nil {
			return fmt.Errorf("insert answer %s: %w", a.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit CreateEvaluation: %w", err)
	}
	return nil
}

const evaluationColumns = `
	id, order_id, supplier_id, supplier_name, evaluation_date, consulting_area,
	evaluating_unit, scoring_type, score_a, score_b, score_c, overall_score,
	weighted_score, weights_applied, created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(s scanner) (models.Evaluation, error) {
	var e models.Evaluation
	err := s.Scan(
		&e.ID, &e.OrderID, &e.SupplierID, &e.SupplierName, &e.EvaluationDate, &e.ConsultingArea,
		&e.EvaluatingUnit, &e.ScoringType, &e.ScoreA, &e.ScoreB, &e.ScoreC, &e.OverallScore,
		&e.WeightedScore, &e.WeightsApplied, &e.CreatedAt,
	)
	return e, err
}

// GetEvaluation loads one evaluation with its answers.
func (r *EvaluationRepository) GetEvaluation(ctx context.Context, id string) (models.Evaluation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+evaluationColumns+` FROM evaluations WHERE id = ?`, id)
	e, err := scanEvaluation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Evaluation{}, ErrNotFound
	}
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("query GetEvaluation: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.question_id, a.section, a.value, a.comment
		FROM evaluation_answers AS a
		LEFT JOIN evaluation_questions AS q ON q.id = a.question_id
		WHERE a.evaluation_id = ?
		ORDER BY a.section, COALESCE(q.sort_order, 0), a.question_id
	`, id)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("query evaluation answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.EvaluationAnswer
		if err := rows.Scan(&a.QuestionID, &a.Section, &a.Value, &a.Comment); err != nil {
			return models.Evaluation{}, fmt.Errorf("scan evaluation answer: %w", err)
		}
		e.Answers = append(e.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return models.Evaluation{}, fmt.Errorf("iterate evaluation answers: %w", err)
	}
	return e, nil
}

// ListEvaluationsBySupplier returns a supplier's evaluations, newest first,
// without answers.
func (r *EvaluationRepository) ListEvaluationsBySupplier(ctx context.Context, supplierID string) ([]models.Evaluation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations
		WHERE supplier_id = ?
		ORDER BY evaluation_date DESC, created_at DESC
	`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("query ListEvaluationsBySupplier: %w", err)
	}
	defer rows.Close()

	var out []models.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ListEvaluationsBySupplier row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListEvaluationsBySupplier: %w", err)
	}
	return out, nil
}
