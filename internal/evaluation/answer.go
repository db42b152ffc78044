package evaluation

import (
	"math"
	"strconv"
	"strings"
)

// Answer is the raw form value for one question plus an optional comment.
type Answer struct {
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// Answered reports whether the raw value is non-blank.
func (a Answer) Answered() bool {
	return strings.TrimSpace(a.Value) != ""
}

// Answers maps question id to answer.
type Answers map[string]Answer

// AnswerValue is the decoded form of a raw answer string. It is one of
// Numeric, Ordinal, FreeText or Empty.
type AnswerValue interface {
	answerValue()
}

type Numeric float64

type OrdinalCode string

type Ordinal struct {
	Code OrdinalCode
}

type FreeText string

type Empty struct{}

func (Numeric) answerValue()  {}
func (Ordinal) answerValue()  {}
func (FreeText) answerValue() {}
func (Empty) answerValue()    {}

// MaxRating is the top of the numeric answer scale.
const MaxRating = 5.0

// ordinalScale is the legacy dropdown vocabulary.
var ordinalScale = map[OrdinalCode]float64{
	"o1": 5,
	"o2": 4,
	"o3": 3,
	"o4": 2,
}

// ParseAnswer decodes a raw answer string.
func ParseAnswer(raw string) AnswerValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Empty{}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 {
		return Numeric(f)
	}

	code := OrdinalCode(strings.ToLower(s))
	if _, ok := ordinalScale[code]; ok {
		return Ordinal{Code: code}
	}

	return FreeText(s)
}

// Normalize maps a decoded answer onto the 0..5 scale. The second return value
// is false for answers that carry no score; those are left out of both the
// numerator and the denominator of a section average.
func Normalize(v AnswerValue) (float64, bool) {
	switch a := v.(type) {
	case Numeric:
		return math.Min(float64(a), MaxRating), true
	case Ordinal:
		score, ok := ordinalScale[a.Code]
		return score, ok
	case FreeText:
		return 0, false
	case Empty:
		return 0, false
	default:
		return 0, false
	}
}

// NormalizeAnswer is ParseAnswer followed by Normalize.
func NormalizeAnswer(raw string) (float64, bool) {
	return Normalize(ParseAnswer(raw))
}
