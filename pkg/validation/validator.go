package validation

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-formdisplay/internal/coerce"
	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/i18n"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

// DefaultRequiredMessage is used when neither the question nor the translator
// supplies a required message.
const DefaultRequiredMessage = "This field is required"

// MessageInvalidEmail is the catalog key for the built-in email check.
const MessageInvalidEmail = "invalid-email"

// Errors maps question identifiers to a single message.
type Errors map[string]string

// Issue is one entry of a Result in list form.
type Issue struct {
	QuestionID string `json:"question_id"`
	Message    string `json:"message"`
}

// Result captures the outcome of a validation pass.
type Result struct {
	Valid  bool   `json:"valid"`
	Errors Errors `json:"errors,omitempty"`
}

// Issues lists the errors ordered by question id.
func (r Result) Issues() []Issue {
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, Issue{QuestionID: id, Message: r.Errors[id]})
	}
	return out
}

// Observer is notified after every validation pass.
type Observer interface {
	ValidationCompleted(valid bool, errors int)
}

// Option customises a Validator.
type Option func(*Validator)

// WithRegistry sets the custom validator registry.
func WithRegistry(registry *Registry) Option {
	return func(v *Validator) {
		v.registry = registry
	}
}

// WithTranslator overrides the catalog used for generic messages.
func WithTranslator(t i18n.Translator) Option {
	return func(v *Validator) {
		if t != nil {
			v.translator = t
		}
	}
}

// WithEmailFormat enables the format check on email questions. Custom
// validators registered for the same question still run afterwards and win.
func WithEmailFormat(enabled bool) Option {
	return func(v *Validator) {
		v.emailFormat = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithObserver registers an Observer, typically a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(v *Validator) {
		v.observer = observer
	}
}

// Validator checks visible questions against their required flag and custom
// validators.
type Validator struct {
	registry    *Registry
	translator  i18n.Translator
	emailFormat bool
	logger      *slog.Logger
	observer    Observer
}

// New constructs a Validator using the default message catalog.
func New(opts ...Option) *Validator {
	v := &Validator{
		translator: i18n.DefaultCatalog,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate checks every question in visible. Hidden, not user visible, and
// display-only questions are skipped. Custom validators run after the required
// check and override its message.
func (v *Validator) Validate(questions []model.Question, store *answers.Store, visible visibility.Set, locale string) Result {
	errs := make(Errors)
	for _, q := range questions {
		if !visible.Has(q.ID) || !q.UserVisible() || q.Type.IsDisplayOnly() {
			continue
		}

		var rec answers.Record
		if store != nil {
			rec, _ = store.Get(q.ID)
		}

		if q.Required && !RequiredSatisfied(q.Type, rec) {
			errs[q.ID] = v.RequiredMessage(q, locale)
		}

		if v.emailFormat && q.Type == model.QuestionTypeEmail && !coerce.Blank(rec.Value) && !EmailFormat(rec.Value) {
			errs[q.ID] = i18n.Translate(v.translator, locale, MessageInvalidEmail, MessageInvalidEmail)
		}

		if fn, ok := v.registry.Get(q.ID); ok {
			if msg := fn(rec, store); msg != "" {
				errs[q.ID] = msg
			}
		}
	}

	result := Result{Valid: len(errs) == 0}
	if len(errs) > 0 {
		result.Errors = errs
	}
	v.logger.Debug("validation: pass complete", "valid", result.Valid, "errors", len(errs), "locale", locale)
	if v.observer != nil {
		v.observer.ValidationCompleted(result.Valid, len(errs))
	}
	return result
}

// RequiredMessage resolves the message shown when q is required but empty:
// the question's own error message for locale, falling back to English, then
// the translated generic message. An entry present for the requested locale
// but left blank selects the generic message rather than another language.
func (v *Validator) RequiredMessage(q model.Question, locale string) string {
	if custom := customMessage(q.ErrorMessage, locale); custom != "" {
		return custom
	}
	return i18n.Translate(v.translator, locale, i18n.MessageFieldRequired, DefaultRequiredMessage)
}

func customMessage(messages model.LocalizedText, locale string) string {
	if v := messages[i18n.AnyLocale]; strings.TrimSpace(v) != "" {
		return v
	}
	for _, key := range i18n.Chain(locale) {
		if v, ok := messages[key]; ok {
			if strings.TrimSpace(v) == "" {
				return ""
			}
			return v
		}
	}
	return ""
}
