package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/service"
)

func TestEvaluationWorkbook(t *testing.T) {
	rec := service.EvaluationRecord{
		ID:             "ev-1",
		OrderID:        "PO-100",
		SupplierID:     "sup-7",
		SupplierName:   "Anadolu Tedarik",
		EvaluationDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ScoringType:    "malzeme",
		Sections: []service.SectionScore{
			{Section: evaluation.SectionA, Score: evaluation.NewScore(80), Display: "80"},
			{Section: evaluation.SectionB, Score: evaluation.NoScore, Display: evaluation.NoScoreDisplay},
		},
		Overall: evaluation.NewScore(80),
		Score:   evaluation.NewScore(80),
		Answers: []service.AnswerInput{
			{QuestionID: "m-a1", Section: "A", Value: "5"},
			{QuestionID: "m-a2", Section: "A", Value: "o3", Comment: "idare eder"},
			{QuestionID: "gone", Section: "A", Value: "4"},
		},
	}
	questions := []evaluation.Question{
		{ID: "m-a1", Text: "Ürün kalitesi", Type: evaluation.QuestionRating, Section: evaluation.SectionA, Active: true},
		{ID: "m-a2", Text: "Ambalaj", Type: evaluation.QuestionDropdown, Section: evaluation.SectionA, Active: true,
			Options: []evaluation.Option{{ID: "o3", Label: "Orta"}}},
	}

	data, err := EvaluationWorkbook(rec, questions)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sipariş No", "PO-100"}, rows[0])
	assert.Equal(t, []string{"Değerlendirme Tarihi", "01.10.2026"}, rows[3])
	assert.Equal(t, []string{"Genel Puan", "80"}, rows[7])

	assert.Equal(t, []string{"Bölüm", "Soru", "Cevap", "Yorum"}, rows[9])
	assert.Equal(t, []string{"A", "Ürün kalitesi", "5"}, rows[10][:3])
	assert.Equal(t, []string{"A", "Ambalaj", "Orta", "idare eder"}, rows[11])
	assert.Equal(t, []string{"A", "gone", "4"}, rows[12][:3])

	assert.Equal(t, []string{"Bölüm", "Puan"}, rows[14])
	assert.Equal(t, []string{"A", "80"}, rows[15])
	assert.Equal(t, []string{"B", evaluation.NoScoreDisplay}, rows[16])
	assert.Equal(t, []string{"Genel", "80"}, rows[17])
	assert.Len(t, rows, 18)
}

func TestFileName(t *testing.T) {
	rec := service.EvaluationRecord{OrderID: "PO-1", EvaluationDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Tedarikci_Degerlendirme_PO-1_2026-10-01.xlsx", FileName(rec))
}
