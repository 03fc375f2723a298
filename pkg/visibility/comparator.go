package visibility

import (
	"strings"

	"github.com/goliatone/go-formdisplay/internal/coerce"
	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

// ActualValue resolves the string a condition compares against for the
// answer rec given to source.
//
//   - select, radio: the selected option's key, or "" when none is selected
//   - checkbox: selected option keys joined with "," in selection order
//   - country, city: the entity reference
//   - anything else: the raw value
func ActualValue(source model.Question, rec answers.Record) string {
	switch {
	case source.Type.IsSingleChoice():
		opt, ok := source.Option(rec.SelectedOption)
		if !ok {
			return ""
		}
		return opt.Key
	case source.Type == model.QuestionTypeCheckbox:
		keys := make([]string, 0, len(rec.SelectedOptions))
		for _, id := range rec.SelectedOptions {
			opt, _ := source.Option(id)
			keys = append(keys, opt.Key)
		}
		return strings.Join(keys, ",")
	case source.Type.IsEntity():
		return rec.EntityID
	default:
		return rec.Value
	}
}

// Compare applies comparator to actual and expected. The second result is
// false when the comparator is unknown, in which case the match is always
// false.
func Compare(comparator model.Comparator, actual, expected string) (bool, bool) {
	switch comparator {
	case model.ComparatorEquals:
		return actual == expected, true
	case model.ComparatorNotEquals:
		return actual != expected, true
	case model.ComparatorContains:
		return strings.Contains(actual, expected), true
	case model.ComparatorNotContains:
		return !strings.Contains(actual, expected), true
	case model.ComparatorGreaterThan:
		a, b, ok := numeric(actual, expected)
		return ok && a > b, true
	case model.ComparatorLessThan:
		a, b, ok := numeric(actual, expected)
		return ok && a < b, true
	case model.ComparatorIsEmpty:
		return coerce.Empty(actual), true
	case model.ComparatorIsNotEmpty:
		return !coerce.Empty(actual), true
	default:
		return false, false
	}
}

func numeric(actual, expected string) (float64, float64, bool) {
	a, ok := coerce.Float(actual)
	if !ok {
		return 0, 0, false
	}
	b, ok := coerce.Float(expected)
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}
