// Package evaluation scores supplier evaluation questionnaires and drives the
// step-by-step evaluation form.
package evaluation

import (
	"fmt"
	"sort"
)

// Section is a named group of questions representing one performance dimension.
type Section string

const (
	SectionA Section = "A"
	SectionB Section = "B"
	SectionC Section = "C"
)

// KnownSections lists the sections in display order.
var KnownSections = []Section{SectionA, SectionB, SectionC}

func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionA, SectionB, SectionC:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

type QuestionType string

const (
	QuestionRating   QuestionType = "rating"
	QuestionDropdown QuestionType = "dropdown"
	QuestionText     QuestionType = "text"
)

func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(s) {
	case QuestionRating, QuestionDropdown, QuestionText:
		return QuestionType(s), nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Section Section      `json:"section"`
	Options []Option     `json:"options,omitempty"`
	Active  bool         `json:"active"`
}

// Source tells where a question bank came from. Only banks from the database
// carry durable question identities that answers can be recorded against.
type Source string

const (
	SourceDB     Source = "db"
	SourceStatic Source = "static"
)

// Bank is the question set for one scoring type.
type Bank struct {
	ScoringType string     `json:"scoringType"`
	Source      Source     `json:"source"`
	Questions   []Question `json:"questions"`
}

// Authoritative reports whether answers to this bank may be submitted.
func (b Bank) Authoritative() bool {
	return b.Source == SourceDB
}

// ActiveQuestions returns the active questions in their original order.
func (b Bank) ActiveQuestions() []Question {
	out := make([]Question, 0, len(b.Questions))
	for _, q := range b.Questions {
		if q.Active {
			out = append(out, q)
		}
	}
	return out
}

// Lookup finds an active question by id.
func (b Bank) Lookup(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id && q.Active {
			return q, true
		}
	}
	return Question{}, false
}

// SectionsPresent returns the sections that have at least one active question,
// ascending.
func SectionsPresent(questions []Question) []Section {
	seen := make(map[Section]bool)
	for _, q := range questions {
		if q.Active {
			seen[q.Section] = true
		}
	}
	out := make([]Section, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
