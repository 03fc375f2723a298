package render

import (
	"slices"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

// Subset filters the questions a renderer emits. An empty subset matches
// everything; otherwise a question matches when its id or its type is listed.
type Subset struct {
	IDs   []string
	Types []model.QuestionType
}

// Empty reports whether the subset applies no filter.
func (s Subset) Empty() bool {
	return len(s.IDs) == 0 && len(s.Types) == 0
}

// Matches reports whether q passes the filter.
func (s Subset) Matches(q model.Question) bool {
	if s.Empty() {
		return true
	}
	return slices.Contains(s.IDs, q.ID) || slices.Contains(s.Types, q.Type)
}

// Apply returns the matching questions in their original order.
func (s Subset) Apply(questions []model.Question) []model.Question {
	if s.Empty() {
		return questions
	}
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if s.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}
