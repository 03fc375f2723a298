package submission

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdisplay/internal/coerce"
	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Identity names the form, entity, and optional submission a batch belongs
// to.
type Identity struct {
	FormID       string
	EntityID     string
	SubmissionID string
}

// Observer is notified of values that had to be defaulted.
type Observer interface {
	NumberDefaulted(questionID string)
	DateUnparsed(questionID string)
}

// Option customises an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger used for encode anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encoder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers an Observer, typically a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(e *Encoder) {
		e.observer = observer
	}
}

// Encoder builds submission batches.
type Encoder struct {
	logger   *slog.Logger
	observer Observer
}

// NewEncoder constructs an Encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Encode converts every answered question into an AnswerInput, in schema
// order. Reserved store keys, keys that name no question, questions not
// visible to users, and display-only questions are skipped.
func (e *Encoder) Encode(store *answers.Store, questions []model.Question, ids Identity) Batch {
	batch := Batch{
		FormID:       ids.FormID,
		SubmissionID: ids.SubmissionID,
		Answers:      []AnswerInput{},
	}
	if ids.EntityID != "" {
		entity := ids.EntityID
		batch.EntityID = &entity
	}
	if store == nil {
		return batch
	}

	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
		if answers.IsReservedKey(q.ID) || !q.UserVisible() || q.Type.IsDisplayOnly() {
			continue
		}
		rec, ok := store.Get(q.ID)
		if !ok {
			continue
		}
		batch.Answers = append(batch.Answers, e.EncodeAnswer(q, rec))
	}

	for _, key := range store.Keys() {
		if _, ok := known[key]; ok || answers.IsReservedKey(key) {
			continue
		}
		e.logger.Debug("submission: skipping answer for unknown question", "key", key)
	}
	return batch
}

// EncodeAnswer converts a single record.
func (e *Encoder) EncodeAnswer(q model.Question, rec answers.Record) AnswerInput {
	in := AnswerInput{
		QuestionID: q.ID,
		ValueType:  ValueTypeFor(q.Type),
		ValueText:  rec.Value,
	}

	switch {
	case q.Type == model.QuestionTypeCheckbox:
		in.SelectedOptionIDs = append([]string{}, rec.SelectedOptions...)
	case q.Type.IsSingleChoice():
		in.SelectedOptionIDs = []string{}
		if rec.SelectedOption != "" {
			in.SelectedOptionIDs = append(in.SelectedOptionIDs, rec.SelectedOption)
		}
	case q.Type == model.QuestionTypeCountry:
		in.ValueEntityID = rec.SelectedOption
	case q.Type == model.QuestionTypeCity:
		in.ValueEntityID = rec.EntityID
	case q.Type == model.QuestionTypeNumber:
		n, ok := coerce.Float(rec.Value)
		if !ok {
			n = 0
			if !coerce.Blank(rec.Value) {
				e.logger.Debug("submission: number defaulted to zero", "question", q.ID, "value", rec.Value)
				if e.observer != nil {
					e.observer.NumberDefaulted(q.ID)
				}
			}
		}
		in.ValueNumber = &n
	case q.Type == model.QuestionTypeFile:
		if rec.FilePath != "" {
			in.ValueText = rec.FilePath
			in.FilePath = rec.FilePath
		}
	case q.Type == model.QuestionTypeDate:
		date, ok := NormalizeDate(rec.Value)
		if !ok {
			e.logger.Warn("submission: date passed through unparsed", "question", q.ID, "value", rec.Value)
			if e.observer != nil {
				e.observer.DateUnparsed(q.ID)
			}
		}
		in.ValueDate = date
		in.ValueText = date
	case q.Type == model.QuestionTypeBoolean:
		b := parseBool(rec.Value)
		in.ValueBoolean = &b
		in.ValueText = strconv.FormatBool(b)
	}
	return in
}

// NormalizeDate returns raw in YYYY-MM-DD form. Canonical input is returned
// unchanged; other parseable input is reformatted. The flag is false when raw
// could not be parsed, in which case it is returned as-is. Blank input is
// returned unchanged with a true flag.
func NormalizeDate(raw string) (string, bool) {
	if coerce.Blank(raw) || canonicalDate.MatchString(raw) {
		return raw, true
	}
	t, ok := coerce.Date(raw)
	if !ok {
		return raw, false
	}
	return t.Format(coerce.CanonicalDateLayout), true
}

func parseBool(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return b
	}
	return trimmed != ""
}
