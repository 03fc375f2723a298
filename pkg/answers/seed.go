package answers

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

// Seed builds a store holding one record per question. Questions with a prior
// answer are pre-populated from it; the rest receive the empty shape for their
// type.
func Seed(questions []model.Question) *Store {
	s := New()
	for _, q := range questions {
		if q.ID == "" {
			continue
		}
		if q.Answer == nil {
			s.Set(q.ID, Shape(q.Type))
			continue
		}
		s.Set(q.ID, FromPrior(q.Type, *q.Answer))
	}
	return s
}

// FromPrior maps a stored answer onto the record shape for t.
func FromPrior(t model.QuestionType, prior model.PriorAnswer) Record {
	switch {
	case t == model.QuestionTypeCheckbox:
		ids := make([]string, 0, len(prior.SelectedOptions))
		for _, opt := range prior.SelectedOptions {
			ids = append(ids, opt.ID)
		}
		return Record{Value: prior.ValueText, SelectedOptions: ids}
	case t.IsSingleChoice():
		rec := Record{Value: prior.ValueText}
		if len(prior.SelectedOptions) > 0 {
			rec.SelectedOption = prior.SelectedOptions[0].ID
		}
		return rec
	case t.IsEntity():
		return Record{
			Value:          prior.ValueText,
			SelectedOption: prior.ValueEntityID,
			EntityID:       prior.ValueEntityID,
		}
	case t == model.QuestionTypeFile:
		return Record{
			Value:    prior.ValueText,
			FilePath: prior.FilePath,
			FileName: baseName(prior.FilePath),
		}
	case t == model.QuestionTypeNumber:
		if prior.ValueNumber != nil {
			return Record{Value: strconv.FormatFloat(*prior.ValueNumber, 'f', -1, 64)}
		}
		return Record{Value: prior.ValueText}
	case t == model.QuestionTypeDate:
		date, _, _ := strings.Cut(strings.TrimSpace(prior.ValueDate), " ")
		return Record{Value: date}
	case t == model.QuestionTypeDateTime:
		if prior.ValueDateTime != "" {
			return Record{Value: prior.ValueDateTime}
		}
		return Record{Value: prior.ValueText}
	case t == model.QuestionTypeBoolean:
		if prior.ValueText == "" && prior.ValueBoolean != nil {
			return Record{Value: strconv.FormatBool(*prior.ValueBoolean)}
		}
		return Record{Value: prior.ValueText}
	default:
		return Record{Value: prior.ValueText}
	}
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
