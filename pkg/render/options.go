package render

import (
	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/i18n"
	"github.com/goliatone/go-formdisplay/pkg/validation"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

// RenderOptions carry the per-request state a renderer needs. The form itself
// is never mutated.
type RenderOptions struct {
	// Locale selects localized labels and messages. Empty means English.
	Locale string
	// Answers holds the current answers. Nil renders an empty form.
	Answers *answers.Store
	// Visible restricts output to the listed questions. Nil means every
	// question the user may see.
	Visible *visibility.Set
	// Errors are the per-question validation messages of the last pass.
	Errors validation.Errors
	// FormErrors are messages not tied to a question, such as a rejected
	// submission.
	FormErrors []string
	// ReadOnly renders answers as text instead of input controls.
	ReadOnly bool
	// Classes overrides the CSS class applied to a named element. See the
	// Class* constants for the keys.
	Classes map[string]string
	// Theme carries the resolved brand tokens and assets.
	Theme *gotheme.RendererConfig
	// Hidden fields are emitted inside the form element.
	Hidden []HiddenField
	// Action is the form action URL. Empty disables the submit button.
	Action string
	// Translator resolves catalog messages. Nil uses i18n.DefaultCatalog.
	Translator i18n.Translator
	// Subset limits output to matching questions.
	Subset Subset
}

// Keys accepted in RenderOptions.Classes.
const (
	ClassForm     = "form"
	ClassQuestion = "question"
	ClassLabel    = "label"
	ClassInput    = "input"
	ClassError    = "error"
	ClassAnswer   = "answer"
	ClassButton   = "button"
	ClassRequired = "required"
)

// DefaultClasses are the class names used when no override is given.
var DefaultClasses = map[string]string{
	ClassForm:     "fd-form",
	ClassQuestion: "fd-question",
	ClassLabel:    "fd-label",
	ClassInput:    "fd-input",
	ClassError:    "fd-error",
	ClassAnswer:   "fd-answer",
	ClassButton:   "fd-submit",
	ClassRequired: "fd-required",
}

// ResolveClasses merges overrides onto DefaultClasses. Blank overrides are
// ignored.
func ResolveClasses(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(DefaultClasses))
	for key, value := range DefaultClasses {
		out[key] = value
	}
	for key, value := range overrides {
		if value != "" {
			out[key] = value
		}
	}
	return out
}
