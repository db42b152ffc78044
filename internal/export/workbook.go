// Package export renders stored evaluations as Excel workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/service"
)

const (
	SheetName   = "Değerlendirme"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FileName is the download name of an evaluation workbook.
func FileName(rec service.EvaluationRecord) string {
	return fmt.Sprintf("Tedarikci_Degerlendirme_%s_%s.xlsx", rec.OrderID, rec.EvaluationDate.Format("2006-01-02"))
}

// EvaluationWorkbook lays out the evaluation header, every answer with its
// question text and the section scores. questions is used to resolve question
// texts and dropdown labels and may be empty.
func EvaluationWorkbook(rec service.EvaluationRecord, questions []evaluation.Question) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("label style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: SheetName}

	general := [][2]any{
		{"Sipariş No", rec.OrderID},
		{"Tedarikçi No", rec.SupplierID},
		{"Tedarikçi Adı", rec.SupplierName},
		{"Değerlendirme Tarihi", rec.EvaluationDate.Format("02.01.2006")},
		{"Danışmanlık Alanı", rec.ConsultingArea},
		{"Değerlendiren Birim", rec.EvaluatingUnit},
		{"Puanlama Türü", rec.ScoringType},
		{"Genel Puan", rec.Score.String()},
	}
	for _, kv := range general {
		w.row(kv[0], kv[1])
		w.style(1, 1, labelStyle)
	}

	w.skip()
	w.row("Bölüm", "Soru", "Cevap", "Yorum")
	w.style(1, 4, headerStyle)

	byID := make(map[string]evaluation.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for _, a := range rec.Answers {
		text, value := a.QuestionID, a.Value
		if q, ok := byID[a.QuestionID]; ok {
			text = q.Text
			value = answerLabel(q, a.Value)
		}
		w.row(a.Section, text, value, a.Comment)
	}

	w.skip()
	w.row("Bölüm", "Puan")
	w.style(1, 2, headerStyle)
	for _, s := range rec.Sections {
		w.row(string(s.Section), s.Display)
	}
	w.row("Genel", rec.Overall.String())
	if rec.Weighted.Valid {
		w.row("Ağırlıklı Genel", rec.Weighted.String())
	}

	if w.err != nil {
		return nil, w.err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// answerLabel shows the option label for dropdown answers.
func answerLabel(q evaluation.Question, value string) string {
	for _, o := range q.Options {
		if o.ID == value {
			return o.Label
		}
	}
	return value
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (w *sheetWriter) row(values ...any) {
	w.next++
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("write row %d: %w", w.next, err)
	}
}

func (w *sheetWriter) skip() { w.next++ }

// style applies style to columns from..to of the last written row.
func (w *sheetWriter) style(from, to, style int) {
	if w.err != nil {
		return
	}
	start, _ := excelize.CoordinatesToCellName(from, w.next)
	end, _ := excelize.CoordinatesToCellName(to, w.next)
	if err := w.f.SetCellStyle(w.sheet, start, end, style); err != nil {
		w.err = err
	}
}
