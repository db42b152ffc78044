package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/godilite/procurement-server/internal/repository/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListScoringTypes returns every scoring type ordered by code.
func (r *QuestionRepository) ListScoringTypes(ctx context.Context) ([]models.ScoringType, error) {
	const query = `
		SELECT code, name, weight_a, weight_b, weight_c
		FROM scoring_types
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListScoringTypes: %w", err)
	}
	defer rows.Close()

	var out []models.ScoringType
	for rows.Next() {
		var st models.ScoringType
		if err := rows.Scan(&st.Code, &st.Name, &st.WeightA, &st.WeightB, &st.WeightC); err != nil {
			return nil, fmt.Errorf("scan ListScoringTypes row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListScoringTypes: %w", err)
	}
	return out, nil
}

func (r *QuestionRepository) GetScoringType(ctx context.Context, code string) (models.ScoringType, error) {
	const query = `
		SELECT code, name, weight_a, weight_b, weight_c
		FROM scoring_types
		WHERE code = ?
	`

	var st models.ScoringType
	err := r.db.QueryRowContext(ctx, query, code).Scan(&st.Code, &st.Name, &st.WeightA, &st.WeightB, &st.WeightC)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScoringType{}, ErrNotFound
	}
	if err != nil {
		return models.ScoringType{}, fmt.Errorf("query GetScoringType: %w", err)
	}
	return st, nil
}

func (r *QuestionRepository) UpsertScoringType(ctx context.Context, st models.ScoringType) error {
	const query = `
		INSERT INTO scoring_types (code, name, weight_a, weight_b, weight_c)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			name = excluded.name,
			weight_a = excluded.weight_a,
			weight_b = excluded.weight_b,
			weight_c = excluded.weight_c
	`

	if _, err := r.db.ExecContext(ctx, query, st.Code, st.Name, st.WeightA, st.WeightB, st.WeightC); err != nil {
		return fmt.Errorf("exec UpsertScoringType: %w", err)
	}
	return nil
}

// ListQuestions returns the questions of a scoring type ordered by section and
// sort order, with their dropdown options attached.
func (r *QuestionRepository) ListQuestions(ctx context.Context, scoringType string, activeOnly bool) ([]models.Question, error) {
	const query = `
		SELECT id, scoring_type, section, text, type, sort_order, active
		FROM evaluation_questions
		WHERE scoring_type = ? AND (? = 0 OR active = 1)
		ORDER BY section, sort_order, id
	`

	rows, err := r.db.QueryContext(ctx, query, scoringType, boolToInt(activeOnly))
	if err != nil {
		return nil, fmt.Errorf("query ListQuestions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	index := make(map[string]int)
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ScoringType, &q.Section, &q.Text, &q.Type, &q.SortOrder, &q.Active); err != nil {
			return nil, fmt.Errorf("scan ListQuestions row: %w", err)
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListQuestions: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.attachOptions(ctx, scoringType, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QuestionRepository) attachOptions(ctx context.Context, scoringType string, questions []models.Question, index map[string]int) error {
	const query = `
		SELECT o.question_id, o.option_id, o.label, o.sort_order
		FROM question_options AS o
		JOIN evaluation_questions AS q ON q.id = o.question_id
		WHERE q.scoring_type = ?
		ORDER BY o.question_id, o.sort_order, o.option_id
	`

	rows, err := r.db.QueryContext(ctx, query, scoringType)
	if err != nil {
		return fmt.Errorf("query question options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID string
		var opt models.QuestionOption
		if err := rows.Scan(&questionID, &opt.OptionID, &opt.Label, &opt.SortOrder); err != nil {
			return fmt.Errorf("scan question option row: %w", err)
		}
		if i, ok := index[questionID]; ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate question options: %w", err)
	}
	return nil
}

// ReplaceQuestions atomically replaces the question bank of a scoring type.
func (r *QuestionRepository) ReplaceQuestions(ctx context.Context, scoringType string, questions []models.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ReplaceQuestions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM question_options
		WHERE question_id IN (SELECT id FROM evaluation_questions WHERE scoring_type = ?)
	`, scoringType); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluation_questions WHERE scoring_type = ?`, scoringType); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}

	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO evaluation_questions (id, scoring_type, section, text, type, sort_order, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, q.ID, scoringType, q.Section, q.Text, q.Type, q.SortOrder, boolToInt(q.Active)); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
		for _, o := range q.Options {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO question_options (question_id, option_id, label, sort_order)
				VALUES (?, ?, ?, ?)
			`, q.ID, o.OptionID, o.Label, o.SortOrder); err != nil {
				return fmt.Errorf("insert option %s/%s: %w", q.ID, o.OptionID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ReplaceQuestions: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
