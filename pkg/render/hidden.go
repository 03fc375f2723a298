package render

import (
	"fmt"
	"sort"
	"strings"
)

// Names of the hidden fields the HTML renderer emits for a session.
const (
	HiddenFormID       = "form_id"
	HiddenEntityID     = "entity_id"
	HiddenSubmissionID = "submission_id"
	HiddenLocale       = "lang"
)

// HiddenField is a hidden form input emitted alongside the questions.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// SessionFields returns the identity fields of a submission. Empty values
// are omitted.
func SessionFields(formID, entityID, submissionID, locale string) []HiddenField {
	var out []HiddenField
	for _, f := range []HiddenField{
		{HiddenFormID, formID},
		{HiddenEntityID, entityID},
		{HiddenSubmissionID, submissionID},
		{HiddenLocale, locale},
	} {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// MergeHiddenFields returns the fields keyed by name. Empty names are
// ignored; later fields win on name collisions.
func MergeHiddenFields(fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	return out
}

// SortedHiddenFields flattens merged fields ordered by name.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: fields[name]})
	}
	return out
}

// NormalizeMessages trims messages and removes blanks and duplicates while
// preserving order.
func NormalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
