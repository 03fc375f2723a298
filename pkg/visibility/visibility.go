package visibility

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

// Reasons reported when a condition is skipped.
const (
	SkipMissingSource = "missing_source_question"
	SkipMissingAnswer = "missing_source_answer"
)

// Observer receives evaluation anomalies. Implementations must be cheap; they
// run inline with every evaluation.
type Observer interface {
	ConditionSkipped(questionID, sourceID, reason string)
	UnknownComparator(questionID string, comparator model.Comparator)
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithLogger routes skipped conditions and unknown comparators to logger at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers an Observer, typically a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(e *Evaluator) {
		e.observer = observer
	}
}

// Evaluator decides question visibility from declarative conditions and the
// current answers. It holds no per-form state and is safe for concurrent use
// as long as the store passed in is not mutated during a call.
type Evaluator struct {
	logger   *slog.Logger
	observer Observer
}

// New constructs an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// IsVisible reports whether question should be shown. Questions flagged as not
// user visible are never shown; questions without conditions always are.
func (e *Evaluator) IsVisible(question model.Question, store *answers.Store, questions []model.Question) bool {
	if !question.UserVisible() {
		return false
	}
	return e.ConditionsMet(question, store, questions)
}

// ConditionsMet evaluates the condition list of question as a logical AND.
// A show condition that does not hold, or a hide condition that does, hides
// the question. Conditions whose source question or answer cannot be found
// are skipped.
func (e *Evaluator) ConditionsMet(question model.Question, store *answers.Store, questions []model.Question) bool {
	for _, cond := range question.Conditions {
		source, ok := model.FindQuestion(questions, cond.SourceQuestionID)
		if !ok {
			e.skip(question.ID, cond.SourceQuestionID, SkipMissingSource)
			continue
		}
		var (
			rec   answers.Record
			found bool
		)
		if store != nil {
			rec, found = store.Get(source.ID)
		}
		if !found {
			e.skip(question.ID, source.ID, SkipMissingAnswer)
			continue
		}

		met, known := Compare(cond.Comparator, ActualValue(source, rec), cond.Value)
		if !known {
			e.logger.Debug("visibility: unknown comparator",
				"question", question.ID,
				"comparator", string(cond.Comparator))
			if e.observer != nil {
				e.observer.UnknownComparator(question.ID, cond.Comparator)
			}
		}

		switch cond.Action {
		case model.ActionShow:
			if !met {
				return false
			}
		case model.ActionHide:
			if met {
				return false
			}
		}
	}
	return true
}

// VisibleSet evaluates every question and returns the visible ones in schema
// order.
func (e *Evaluator) VisibleSet(questions []model.Question, store *answers.Store) Set {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		if e.IsVisible(q, store, questions) {
			ids = append(ids, q.ID)
		}
	}
	return NewSet(ids...)
}

func (e *Evaluator) skip(questionID, sourceID, reason string) {
	e.logger.Debug("visibility: condition skipped",
		"question", questionID,
		"source", sourceID,
		"reason", reason)
	if e.observer != nil {
		e.observer.ConditionSkipped(questionID, sourceID, reason)
	}
}
