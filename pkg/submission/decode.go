package submission

import (
	"slices"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

// PriorAnswer maps an encoded answer back to the shape the API returns for a
// stored answer. Options are resolved against q so selected option keys and
// labels are carried when known.
func PriorAnswer(q model.Question, in AnswerInput) model.PriorAnswer {
	prior := model.PriorAnswer{
		QuestionID:    in.QuestionID,
		ValueType:     string(in.ValueType),
		ValueText:     in.ValueText,
		ValueDate:     in.ValueDate,
		ValueEntityID: in.ValueEntityID,
		FilePath:      in.FilePath,
	}
	if in.ValueNumber != nil {
		n := *in.ValueNumber
		prior.ValueNumber = &n
	}
	if in.ValueBoolean != nil {
		b := *in.ValueBoolean
		prior.ValueBoolean = &b
	}
	for _, id := range in.SelectedOptionIDs {
		opt, ok := q.Option(id)
		if !ok {
			opt = model.Option{ID: id}
		}
		prior.SelectedOptions = append(prior.SelectedOptions, opt)
	}
	return prior
}

// Decode returns a copy of questions with each question's prior answer taken
// from batch. Questions absent from the batch keep no prior answer, so the
// result can be passed straight to answers.Seed.
func Decode(batch Batch, questions []model.Question) []model.Question {
	out := slices.Clone(questions)
	for i := range out {
		out[i].Answer = nil
		in, ok := batch.Answer(out[i].ID)
		if !ok {
			continue
		}
		prior := PriorAnswer(out[i], in)
		out[i].Answer = &prior
	}
	return out
}

// Summary is a flattened view of one answer for logs and previews.
type Summary struct {
	QuestionType    model.QuestionType `json:"questionType"`
	Value           string             `json:"value"`
	SelectedOption  string             `json:"selectedOption,omitempty"`
	SelectedOptions []string           `json:"selectedOptions,omitempty"`
	FilePath        string             `json:"filePath,omitempty"`
	FileName        string             `json:"fileName,omitempty"`
}

// Summarize flattens the store into per-question summaries, skipping keys
// that are reserved or name no question.
func Summarize(store *answers.Store, questions []model.Question) map[string]Summary {
	out := make(map[string]Summary)
	if store == nil {
		return out
	}
	for _, key := range store.Keys() {
		if answers.IsReservedKey(key) {
			continue
		}
		q, ok := model.FindQuestion(questions, key)
		if !ok {
			continue
		}
		rec, _ := store.Get(key)
		out[key] = Summary{
			QuestionType:    q.Type,
			Value:           rec.Value,
			SelectedOption:  rec.SelectedOption,
			SelectedOptions: rec.SelectedOptions,
			FilePath:        rec.FilePath,
			FileName:        rec.FileName,
		}
	}
	return out
}
