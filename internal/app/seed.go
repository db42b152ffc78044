package app

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/repository"
	"github.com/godilite/procurement-server/internal/repository/models"
	"github.com/godilite/procurement-server/internal/service"
)

// seedQuestionBanks copies the built-in banks into an empty database. A
// database that already has scoring types is left untouched.
func seedQuestionBanks(ctx context.Context, repo *repository.QuestionRepository, logger *zap.Logger) error {
	existing, err := repo.ListScoringTypes(ctx)
	if err != nil {
		return fmt.Errorf("list scoring types: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("question banks already present, skipping seed", zap.Int("scoringTypes", len(existing)))
		return nil
	}

	banks := service.StaticBanks()
	for _, st := range service.StaticScoringTypes() {
		if err := repo.UpsertScoringType(ctx, models.ScoringType{Code: st.Code, Name: st.Name}); err != nil {
			return fmt.Errorf("seed scoring type %s: %w", st.Code, err)
		}

		bank, ok := banks[st.Code]
		if !ok {
			continue
		}
		rows := make([]models.Question, 0, len(bank.Questions))
		for i, q := range bank.Questions {
			row := models.Question{
				ID:          q.ID,
				ScoringType: st.Code,
				Section:     string(q.Section),
				Text:        q.Text,
				Type:        string(q.Type),
				SortOrder:   i + 1,
				Active:      q.Active,
			}
			for j, o := range q.Options {
				row.Options = append(row.Options, models.QuestionOption{OptionID: o.ID, Label: o.Label, SortOrder: j + 1})
			}
			rows = append(rows, row)
		}
		if err := repo.ReplaceQuestions(ctx, st.Code, rows); err != nil {
			return fmt.Errorf("seed questions for %s: %w", st.Code, err)
		}
	}

	codes := make([]string, 0, len(banks))
	for code := range banks {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	logger.Info("seeded built-in question banks", zap.Strings("scoringTypes", codes))
	return nil
}
