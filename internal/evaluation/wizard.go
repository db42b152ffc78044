package evaluation

import "errors"

// Step is one page of the evaluation form.
type Step string

const (
	StepGeneral Step = "genel"
	StepSummary Step = "ozet"
)

// SectionStep returns the step that shows section s.
func SectionStep(s Section) Step { return Step(s) }

var (
	ErrAtFirstStep  = errors.New("already at the first step")
	ErrAtLastStep   = errors.New("already at the last step")
	ErrNotOnSummary = errors.New("submission is only possible from the summary step")
	ErrStaticBank   = errors.New("questions come from the static fallback bank and cannot be submitted")
)

// BuildSteps lays out genel, one step per section with active questions in
// ascending order, then ozet.
func BuildSteps(questions []Question) []Step {
	sections := SectionsPresent(questions)
	steps := make([]Step, 0, len(sections)+2)
	steps = append(steps, StepGeneral)
	for _, s := range sections {
		steps = append(steps, SectionStep(s))
	}
	return append(steps, StepSummary)
}

// Wizard walks the evaluation form strictly forward and back.
type Wizard struct {
	bank   Bank
	steps  []Step
	cursor int
}

func NewWizard(bank Bank) *Wizard {
	return &Wizard{bank: bank, steps: BuildSteps(bank.Questions)}
}

// RestoreWizard rebuilds a wizard positioned at current. An unknown step falls
// back to the first one.
func RestoreWizard(bank Bank, current Step) *Wizard {
	w := NewWizard(bank)
	if idx := w.indexOf(current); idx >= 0 {
		w.cursor = idx
	}
	return w
}

func (w *Wizard) Bank() Bank { return w.bank }

func (w *Wizard) Steps() []Step {
	out := make([]Step, len(w.steps))
	copy(out, w.steps)
	return out
}

func (w *Wizard) Current() Step { return w.steps[w.cursor] }

func (w *Wizard) Index() int { return w.cursor }

func (w *Wizard) IsFirst() bool { return w.cursor == 0 }

func (w *Wizard) IsLast() bool { return w.cursor == len(w.steps)-1 }

// Next moves one step forward ("İleri").
func (w *Wizard) Next() error {
	if w.IsLast() {
		return ErrAtLastStep
	}
	w.cursor++
	return nil
}

// Back moves one step back ("Geri").
func (w *Wizard) Back() error {
	if w.IsFirst() {
		return ErrAtFirstStep
	}
	w.cursor--
	return nil
}

// SetQuestions swaps the question set and recomputes the steps. The wizard stays on
// the same step when it still exists, otherwise it returns to genel.
func (w *Wizard) SetQuestions(bank Bank) {
	current := w.Current()
	w.bank = bank
	w.steps = BuildSteps(bank.Questions)
	w.cursor = 0
	if idx := w.indexOf(current); idx >= 0 {
		w.cursor = idx
	}
}

// CanSubmit reports whether the form may be submitted now, and why not.
func (w *Wizard) CanSubmit() (bool, error) {
	if w.Current() != StepSummary {
		return false, ErrNotOnSummary
	}
	if !w.bank.Authoritative() {
		return false, ErrStaticBank
	}
	return true, nil
}

// SectionQuestions returns the active questions shown on the current step.
func (w *Wizard) SectionQuestions() []Question {
	step := w.Current()
	if step == StepGeneral || step == StepSummary {
		return nil
	}
	var out []Question
	for _, q := range w.bank.Questions {
		if q.Active && SectionStep(q.Section) == step {
			out = append(out, q)
		}
	}
	return out
}

func (w *Wizard) indexOf(step Step) int {
	for i, s := range w.steps {
		if s == step {
			return i
		}
	}
	return -1
}
