package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/reference"
	"github.com/goliatone/go-formdisplay/pkg/submission"
	"github.com/goliatone/go-formdisplay/pkg/validation"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

var (
	// ErrUnknownQuestion is returned by input handlers for ids the form does
	// not define.
	ErrUnknownQuestion = errors.New("orchestrator: unknown question")
	// ErrWrongType is returned when an input handler does not apply to the
	// question type.
	ErrWrongType = errors.New("orchestrator: handler does not apply to question type")
	// ErrUnknownOption is returned when an option id is not offered by the
	// question.
	ErrUnknownOption = errors.New("orchestrator: unknown option")
	// ErrInvalid is returned by Submit when validation fails. The messages are
	// available from Errors.
	ErrInvalid = errors.New("orchestrator: form has validation errors")
	// ErrNoTransport is returned by Submit when no transport is configured.
	ErrNoTransport = errors.New("orchestrator: transport not configured")
	// ErrNoReference is returned by the country and city loaders when no
	// reference source is configured.
	ErrNoReference = errors.New("orchestrator: reference source not configured")
	// ErrNoUploader is returned by Submit when a file is pending and no
	// uploader is configured.
	ErrNoUploader = errors.New("orchestrator: uploader not configured")
	// ErrStale is returned when a city list arrives after the country changed.
	ErrStale = errors.New("orchestrator: stale reference response")
)

// Session holds the state of one form being filled.
type Session struct {
	mu sync.Mutex

	form      model.Form
	questions []model.Question
	store     *answers.Store
	visible   visibility.Set
	errors    validation.Errors
	guard     *reference.Guard
	countries []reference.Entity
	cities    []reference.Entity

	locale       string
	entityID     string
	submissionID string

	evaluator *visibility.Evaluator
	validator *validation.Validator
	encoder   *submission.Encoder
	transport Transport
	uploader  Uploader
	reference reference.Lister
	observer  Observer
	initial   *answers.Store

	onSaveSuccess func(submission.Result)
	onSaveError   func(error)

	logger *slog.Logger
}

// New starts a session for form, seeding answers from the prior answers the
// form carries.
func New(form model.Form, opts ...Option) *Session {
	s := &Session{
		form:      form,
		questions: form.Questions,
		locale:    "en",
		entityID:  form.EntityID,
		errors:    validation.Errors{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.evaluator == nil {
		s.evaluator = visibility.New(visibility.WithLogger(s.logger))
	}
	if s.validator == nil {
		s.validator = validation.New(validation.WithLogger(s.logger))
	}
	if s.encoder == nil {
		s.encoder = submission.NewEncoder(submission.WithLogger(s.logger))
	}
	s.store = answers.Seed(s.questions)
	if s.initial != nil {
		for _, id := range s.initial.Keys() {
			rec, _ := s.initial.Get(id)
			if q, ok := model.FindQuestion(s.questions, id); ok {
				rec = rec.Conform(q.Type)
			}
			s.store.Set(id, rec)
		}
		s.initial = nil
	}
	s.guard = reference.NewGuard(s.store)
	s.recompute()
	return s
}

// Form returns the schema the session was started with.
func (s *Session) Form() model.Form {
	return s.form
}

// Locale returns the active locale.
func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale switches the locale used for messages and option labels.
func (s *Session) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if locale != "" {
		s.locale = locale
	}
}

// EntityID returns the entity the answers belong to.
func (s *Session) EntityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityID
}

// SubmissionID returns the submission the next Submit updates, if any.
func (s *Session) SubmissionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissionID
}

// Store returns a snapshot of the answers.
func (s *Session) Store() *answers.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// Answer returns the record for id.
func (s *Session) Answer(id string) (answers.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Visible returns the current visible set.
func (s *Session) Visible() visibility.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// IsVisible reports whether id is in the current visible set.
func (s *Session) IsVisible(id string) bool {
	return s.Visible().Has(id)
}

// Errors returns a copy of the current validation messages.
func (s *Session) Errors() validation.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.errors)
}

// Summary returns the answers keyed by question id in display form.
func (s *Session) Summary() map[string]submission.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return submission.Summarize(s.store, s.questions)
}

// SetValue records a free-text answer.
func (s *Session) SetValue(id, value string) error {
	return s.mutate(id, func(q model.Question) error {
		if q.Type.HasOptions() || q.Type.IsEntity() || q.Type.IsDisplayOnly() {
			return fmt.Errorf("%w: SetValue on %s", ErrWrongType, q.Type)
		}
		s.store.SetValue(id, value)
		return nil
	})
}

// ToggleOption checks or unchecks a checkbox option.
func (s *Session) ToggleOption(id, optionID string, checked bool) error {
	return s.mutate(id, func(q model.Question) error {
		if q.Type != model.QuestionTypeCheckbox {
			return fmt.Errorf("%w: ToggleOption on %s", ErrWrongType, q.Type)
		}
		if _, ok := q.Option(optionID); !ok {
			return fmt.Errorf("%w: %s/%s", ErrUnknownOption, id, optionID)
		}
		s.store.ToggleOption(id, optionID, checked)
		return nil
	})
}

// SelectOption records a select or radio choice. An empty optionID clears it.
func (s *Session) SelectOption(id, optionID string) error {
	return s.mutate(id, func(q model.Question) error {
		if !q.Type.IsSingleChoice() {
			return fmt.Errorf("%w: SelectOption on %s", ErrWrongType, q.Type)
		}
		if optionID == "" {
			s.store.SelectOption(id, "", "")
			return nil
		}
		opt, ok := q.Option(optionID)
		if !ok {
			return fmt.Errorf("%w: %s/%s", ErrUnknownOption, id, optionID)
		}
		s.store.SelectOption(id, opt.ID, opt.DisplayLabel(s.locale))
		return nil
	})
}

// SetFile records an already uploaded file.
func (s *Session) SetFile(id, path, name string) error {
	return s.mutate(id, func(q model.Question) error {
		if q.Type != model.QuestionTypeFile {
			return fmt.Errorf("%w: SetFile on %s", ErrWrongType, q.Type)
		}
		s.store.SetFile(id, path, name)
		return nil
	})
}

// AttachFile records a file to upload at submit time.
func (s *Session) AttachFile(id string, upload answers.Upload) error {
	return s.mutate(id, func(q model.Question) error {
		if q.Type != model.QuestionTypeFile {
			return fmt.Errorf("%w: AttachFile on %s", ErrWrongType, q.Type)
		}
		s.store.AttachFile(id, &upload)
		return nil
	})
}

// SetEntity records a country or city selection. Selecting a country clears
// every city answer and records the reserved country keys.
func (s *Session) SetEntity(id, entityID, text string) error {
	return s.mutate(id, func(q model.Question) error {
		if !q.Type.IsEntity() {
			return fmt.Errorf("%w: SetEntity on %s", ErrWrongType, q.Type)
		}
		s.store.SetEntity(id, entityID, text)
		if q.Type == model.QuestionTypeCountry {
			s.countryChanged(entityID)
		}
		return nil
	})
}

// SelectCountry records entity as the answer to the country question id.
func (s *Session) SelectCountry(id string, entity reference.Entity) error {
	return s.SetEntity(id, entity.ID, entity.Label)
}

func (s *Session) countryChanged(entityID string) {
	s.store.SetValue(answers.KeySelectedCountry, entityID)
	s.store.SetValue(answers.KeyCountryID, entityID)
	s.cities = nil
	for _, q := range s.questions {
		if q.Type != model.QuestionTypeCity {
			continue
		}
		if rec, ok := s.store.Get(q.ID); ok && rec.EntityID == "" && rec.SelectedOption == "" && rec.Value == "" {
			continue
		}
		s.store.ClearEntity(q.ID)
		delete(s.errors, q.ID)
	}
}

// Validate runs the validator against the visible questions and replaces the
// error map.
func (s *Session) Validate() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() validation.Result {
	result := s.validator.Validate(s.questions, s.store, s.visible, s.locale)
	s.errors = maps.Clone(result.Errors)
	if s.errors == nil {
		s.errors = validation.Errors{}
	}
	return result
}

// Batch encodes the current answers without submitting them.
func (s *Session) Batch() submission.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoder.Encode(s.store, s.questions, s.identity())
}

func (s *Session) identity() submission.Identity {
	return submission.Identity{
		FormID:       s.form.ID,
		EntityID:     s.entityID,
		SubmissionID: s.submissionID,
	}
}

func (s *Session) mutate(id string, fn func(model.Question) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := model.FindQuestion(s.questions, id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if err := fn(q); err != nil {
		return err
	}
	delete(s.errors, id)
	s.recompute()
	return nil
}

func (s *Session) recompute() {
	s.visible = s.evaluator.VisibleSet(s.questions, s.store)
}
