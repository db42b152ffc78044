package evaluation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NoScoreDisplay is shown for sections without any scorable answer.
const NoScoreDisplay = "—"

// Score is an integer percentage in [0,100]. An invalid Score means there was
// no data, which is not the same as a score of 0.
type Score struct {
	Value int
	Valid bool
}

// NoScore is the "no data" sentinel.
var NoScore = Score{}

func NewScore(v int) Score { return Score{Value: v, Valid: true} }

func (s Score) String() string {
	if !s.Valid {
		return NoScoreDisplay
	}
	return strconv.Itoa(s.Value)
}

// MarshalJSON encodes a missing score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = NoScore
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = NewScore(v)
	return nil
}

// percent converts a 0..5 average into a rounded percentage.
func percent(average float64) int {
	return int(math.Round(average / MaxRating * 100))
}

// ComputeSectionScore averages the normalized values of answered questions in
// section. Answers NormalizeAnswer rejects, such as free text, are skipped. A section with nothing to average yields NoScore.
func ComputeSectionScore(questions []Question, answers Answers, section Section) Score {
	values := sectionValues(questions, answers, section)
	if len(values) == 0 {
		return NoScore
	}
	return NewScore(percent(stat.Mean(values, nil)))
}

func sectionValues(questions []Question, answers Answers, section Section) []float64 {
	var values []float64
	for _, q := range questions {
		if q.Section != section || !q.Active {
			continue
		}
		a, ok := answers[q.ID]
		if !ok || !a.Answered() {
			continue
		}
		if v, ok := NormalizeAnswer(a.Value); ok {
			values = append(values, v)
		}
	}
	return values
}

// SectionResult is the score of one section together with its answer coverage.
type SectionResult struct {
	Section  Section `json:"section"`
	Score    Score   `json:"score"`
	Display  string  `json:"display"`
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
}

// ComputeSectionScores scores every section present among the active questions.
func ComputeSectionScores(questions []Question, answers Answers) []SectionResult {
	sections := SectionsPresent(questions)
	out := make([]SectionResult, 0, len(sections))
	for _, s := range sections {
		var total, answered int
		for _, q := range questions {
			if q.Section != s || !q.Active {
				continue
			}
			total++
			if a, ok := answers[q.ID]; ok && a.Answered() {
				answered++
			}
		}
		score := ComputeSectionScore(questions, answers, s)
		out = append(out, SectionResult{
			Section:  s,
			Score:    score,
			Display:  score.String(),
			Answered: answered,
			Total:    total,
		})
	}
	return out
}

// ComputeOverallScore is the rounded mean of the valid section scores. Sections
// without a score are left out rather than counted as zero.
func ComputeOverallScore(scores []Score) Score {
	values := validValues(scores)
	if len(values) == 0 {
		return NoScore
	}
	return NewScore(int(math.Round(stat.Mean(values, nil))))
}

// Weights is the per-section weighting of a scoring type.
type Weights map[Section]float64

// ComputeWeightedOverallScore weights each valid section score by its section
// weight. Sections with a missing or non-positive weight are ignored; if no
// valid section carries weight the plain mean is returned.
func ComputeWeightedOverallScore(results []SectionResult, weights Weights) Score {
	var values, w []float64
	for _, r := range results {
		if !r.Score.Valid {
			continue
		}
		if wt := weights[r.Section]; wt > 0 && !math.IsInf(wt, 0) {
			values = append(values, float64(r.Score.Value))
			w = append(w, wt)
		}
	}
	if len(values) == 0 || floats.Sum(w) == 0 {
		return ComputeOverallScore(scoresOf(results))
	}
	return NewScore(int(math.Round(stat.Mean(values, w))))
}

func scoresOf(results []SectionResult) []Score {
	out := make([]Score, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}

func validValues(scores []Score) []float64 {
	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s.Valid {
			values = append(values, float64(s.Value))
		}
	}
	return values
}

// Result is a fully scored questionnaire.
type Result struct {
	Sections        []SectionResult `json:"sections"`
	Overall         Score           `json:"overall"`
	WeightedOverall Score           `json:"weightedOverall"`
}

// Evaluate scores the answers against questions. weights may be nil.
func Evaluate(questions []Question, answers Answers, weights Weights) Result {
	sections := ComputeSectionScores(questions, answers)
	return Result{
		Sections:        sections,
		Overall:         ComputeOverallScore(scoresOf(sections)),
		WeightedOverall: ComputeWeightedOverallScore(sections, weights),
	}
}
