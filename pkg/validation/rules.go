package validation

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-formdisplay/internal/coerce"
	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailFormat reports whether value looks like an email address.
func EmailFormat(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// RequiredSatisfied reports whether rec counts as answered for a question of
// type t.
//
//   - select, radio, country, city: a selected option is set
//   - checkbox: at least one option is selected
//   - file: a pending upload or a stored path is present
//   - anything else: the value is not blank
func RequiredSatisfied(t model.QuestionType, rec answers.Record) bool {
	switch {
	case t.IsSingleChoice(), t.IsEntity():
		return rec.SelectedOption != ""
	case t == model.QuestionTypeCheckbox:
		return len(rec.SelectedOptions) > 0
	case t == model.QuestionTypeFile:
		return rec.HasFile() || rec.FilePath != ""
	default:
		return !coerce.Blank(rec.Value)
	}
}

// EmailFunc returns a validator that rejects non-blank values that are not
// email addresses.
func EmailFunc(message string) Func {
	return func(rec answers.Record, _ *answers.Store) string {
		if coerce.Blank(rec.Value) || EmailFormat(rec.Value) {
			return ""
		}
		return message
	}
}
