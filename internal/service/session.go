package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/drafts"
	"github.com/godilite/procurement-server/internal/evaluation"
)

const sessionKeyPrefix = "evaluation-session:"

// sessionDraft is what a session persists between requests. The question bank
// is reloaded on every request so that bank edits show up immediately.
type sessionDraft struct {
	ID          string             `json:"id" msgpack:"id"`
	ScoringType string             `json:"scoringType" msgpack:"scoringType"`
	Header      EvaluationHeader   `json:"header" msgpack:"header"`
	Step        string             `json:"step" msgpack:"step"`
	Answers     evaluation.Answers `json:"answers" msgpack:"answers"`
	UpdatedAt   time.Time          `json:"updatedAt" msgpack:"updatedAt"`
}

// SessionService drives the step-by-step evaluation form on the server and
// keeps its state in a draft store.
type SessionService struct {
	evaluations Evaluations
	store       drafts.Store
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewSessionService(evaluations Evaluations, store drafts.Store, logger *zap.Logger) *SessionService {
	if evaluations == nil || store == nil {
		panic("evaluations and store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		evaluations: evaluations,
		store:       store,
		logger:      logger.Named("session-service"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// session is a loaded draft together with its live wizard.
type session struct {
	draft  sessionDraft
	wizard *evaluation.Wizard
}

func (s *SessionService) Start(ctx context.Context, req StartSessionRequest) (SessionView, error) {
	bank, err := s.evaluations.QuestionBank(ctx, req.ScoringType)
	if err != nil {
		return SessionView{}, err
	}

	sess := &session{
		draft: sessionDraft{
			ID:          s.newID(),
			ScoringType: bank.ScoringType,
			Header:      req.EvaluationHeader,
			Answers:     evaluation.Answers{},
		},
		wizard: evaluation.NewWizard(bank),
	}
	if err := s.save(ctx, sess); err != nil {
		return SessionView{}, err
	}

	s.logger.Info("evaluation session started",
		zap.String("id", sess.draft.ID),
		zap.String("scoringType", bank.ScoringType),
		zap.String("source", string(bank.Source)))

	return s.view(sess), nil
}

func (s *SessionService) Get(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess), nil
}

// Answer records the answer to one question. A blank value clears it.
func (s *SessionService) Answer(ctx context.Context, id, questionID, value, comment string) (SessionView, error) {
	return s.mutate(ctx, id, func(sess *session) error {
		if _, ok := sess.wizard.Bank().Lookup(questionID); !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidInput, questionID)
		}
		a := evaluation.Answer{Value: strings.TrimSpace(value), Comment: comment}
		if !a.Answered() && a.Comment == "" {
			delete(sess.draft.Answers, questionID)
			return nil
		}
		sess.draft.Answers[questionID] = a
		return nil
	})
}

// UpdateHeader replaces the general information of the evaluation.
func (s *SessionService) UpdateHeader(ctx context.Context, id string, header EvaluationHeader) (SessionView, error) {
	return s.mutate(ctx, id, func(sess *session) error {
		sess.draft.Header = header
		return nil
	})
}

func (s *SessionService) Next(ctx context.Context, id string) (SessionView, error) {
	return s.mutate(ctx, id, func(sess *session) error {
		if err := sess.wizard.Next(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil
	})
}

func (s *SessionService) Back(ctx context.Context, id string) (SessionView, error) {
	return s.mutate(ctx, id, func(sess *session) error {
		if err := sess.wizard.Back(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil
	})
}

// ChangeType swaps the question bank. Answers to questions that are not part
// of the new bank are dropped.
func (s *SessionService) ChangeType(ctx context.Context, id, scoringType string) (SessionView, error) {
	return s.mutate(ctx, id, func(sess *session) error {
		bank, err := s.evaluations.QuestionBank(ctx, scoringType)
		if err != nil {
			return err
		}
		sess.wizard.SetQuestions(bank)
		sess.draft.ScoringType = bank.ScoringType
		for qid := range sess.draft.Answers {
			if _, ok := bank.Lookup(qid); !ok {
				delete(sess.draft.Answers, qid)
			}
		}
		return nil
	})
}

// Submit records the evaluation and removes the draft. It is only possible
// from the summary step of a bank loaded from the database.
func (s *SessionService) Submit(ctx context.Context, id string) (SubmitResult, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SubmitResult{}, err
	}

	if ok, reason := sess.wizard.CanSubmit(); !ok {
		if errors.Is(reason, evaluation.ErrStaticBank) {
			return SubmitResult{}, ErrStaticBank
		}
		return SubmitResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, reason)
	}

	req := SubmitEvaluationRequest{
		EvaluationHeader: sess.draft.Header,
		ScoringType:      sess.draft.ScoringType,
	}
	for _, q := range sess.wizard.Bank().ActiveQuestions() {
		a, ok := sess.draft.Answers[q.ID]
		if !ok || !a.Answered() {
			continue
		}
		req.Answers = append(req.Answers, AnswerInput{
			QuestionID: q.ID,
			Section:    string(q.Section),
			Value:      a.Value,
			Comment:    a.Comment,
		})
	}

	result, err := s.evaluations.Submit(ctx, req)
	if err != nil {
		return SubmitResult{}, err
	}

	if err := s.store.Delete(ctx, sessionKeyPrefix+id); err != nil {
		s.logger.Warn("failed to delete submitted session", zap.String("id", id), zap.Error(err))
	}
	return result, nil
}

// Discard drops the session without submitting it.
func (s *SessionService) Discard(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, sessionKeyPrefix+id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

// mutate loads the session, applies fn and saves it back. Concurrent mutations
// of one session are last-write-wins.
func (s *SessionService) mutate(ctx context.Context, id string, fn func(*session) error) (SessionView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	if err := fn(sess); err != nil {
		return SessionView{}, err
	}
	if err := s.save(ctx, sess); err != nil {
		return SessionView{}, err
	}
	return s.view(sess), nil
}

func (s *SessionService) load(ctx context.Context, id string) (*session, error) {
	var d sessionDraft
	err := s.store.Load(ctx, sessionKeyPrefix+id, &d)
	if errors.Is(err, drafts.ErrNotFound) {
		return nil, fmt.Errorf("%w: session %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if d.Answers == nil {
		d.Answers = evaluation.Answers{}
	}

	bank, err := s.evaluations.QuestionBank(ctx, d.ScoringType)
	if err != nil {
		return nil, err
	}
	return &session{draft: d, wizard: evaluation.RestoreWizard(bank, evaluation.Step(d.Step))}, nil
}

func (s *SessionService) save(ctx context.Context, sess *session) error {
	sess.draft.Step = string(sess.wizard.Current())
	sess.draft.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sessionKeyPrefix+sess.draft.ID, sess.draft); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

func (s *SessionService) view(sess *session) SessionView {
	bank := sess.wizard.Bank()
	result := evaluation.Evaluate(bank.Questions, sess.draft.Answers, nil)

	v := SessionView{
		ID:             sess.draft.ID,
		ScoringType:    sess.draft.ScoringType,
		Source:         bank.Source,
		Header:         sess.draft.Header,
		Step:           sess.wizard.Current(),
		StepIndex:      sess.wizard.Index(),
		Steps:          sess.wizard.Steps(),
		Questions:      sess.wizard.SectionQuestions(),
		Answers:        sess.draft.Answers,
		Sections:       result.Sections,
		Overall:        result.Overall,
		OverallDisplay: result.Overall.String(),
		UpdatedAt:      sess.draft.UpdatedAt,
	}
	ok, reason := sess.wizard.CanSubmit()
	v.CanSubmit = ok
	if reason != nil {
		v.SubmitBlockedReason = reason.Error()
	}
	return v
}
