package submission

import (
	"encoding/json"
	"errors"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

// ValueType tags how the API stores an answer.
type ValueType string

const (
	ValueTypeText     ValueType = "text"
	ValueTypeNumber   ValueType = "number"
	ValueTypeCountry  ValueType = "country"
	ValueTypeCity     ValueType = "city"
	ValueTypeFile     ValueType = "file"
	ValueTypeDate     ValueType = "date"
	ValueTypeDateTime ValueType = "datetime"
	ValueTypeBoolean  ValueType = "boolean"
)

// ValueTypeFor infers the value type for a question type. Choice questions
// are stored as text plus their selected option ids.
func ValueTypeFor(t model.QuestionType) ValueType {
	switch t {
	case model.QuestionTypeNumber:
		return ValueTypeNumber
	case model.QuestionTypeCountry:
		return ValueTypeCountry
	case model.QuestionTypeCity:
		return ValueTypeCity
	case model.QuestionTypeFile:
		return ValueTypeFile
	case model.QuestionTypeDate:
		return ValueTypeDate
	case model.QuestionTypeDateTime:
		return ValueTypeDateTime
	case model.QuestionTypeBoolean:
		return ValueTypeBoolean
	default:
		return ValueTypeText
	}
}

// AnswerInput is a single encoded answer.
type AnswerInput struct {
	QuestionID    string    `json:"question_id"`
	ValueType     ValueType `json:"value_type"`
	ValueText     string    `json:"value_text"`
	ValueNumber   *float64  `json:"value_number,omitempty"`
	ValueDate     string    `json:"value_date,omitempty"`
	ValueBoolean  *bool     `json:"value_boolean,omitempty"`
	ValueEntityID string    `json:"value_entity_id,omitempty"`
	FilePath      string    `json:"file_path,omitempty"`
	// SelectedOptionIDs is non-nil for choice questions, where an empty list
	// clears the stored selection.
	SelectedOptionIDs []string `json:"selected_option_ids"`
}

// MarshalJSON omits selected_option_ids for non-choice answers while keeping
// an explicit empty list for choice answers.
func (a AnswerInput) MarshalJSON() ([]byte, error) {
	type plain AnswerInput
	if a.SelectedOptionIDs != nil {
		return json.Marshal(plain(a))
	}
	return json.Marshal(struct {
		plain
		SelectedOptionIDs []string `json:"selected_option_ids,omitempty"`
	}{plain: plain(a)})
}

// Batch is the input of the bulk answer mutation.
type Batch struct {
	FormID       string        `json:"form_id"`
	SubmissionID string        `json:"submission_id,omitempty"`
	EntityID     *string       `json:"entity_id"`
	Answers      []AnswerInput `json:"answers"`
}

// Answer returns the encoded answer for questionID.
func (b Batch) Answer(questionID string) (AnswerInput, bool) {
	for _, a := range b.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return AnswerInput{}, false
}

// ErrRejected marks a transport error for a batch the API refused. The
// accompanying Result carries the API message.
var ErrRejected = errors.New("submission: rejected")

// Outcome labels how a transport attempt ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// OutcomeOf classifies the error a transport returned.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrRejected):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// Result is the response of the bulk answer mutation.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	SubmissionID  string `json:"submission_id,omitempty"`
	AnswersCount  int    `json:"answers_count,omitempty"`
	FailedAnswers []any  `json:"failed_answers,omitempty"`
}
