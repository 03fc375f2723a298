package answers

import (
	"slices"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

// Upload is a file picked by the user that has not been uploaded yet.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Record is the answer for a single question. Field names in JSON match the
// answer payloads exchanged with browser clients.
type Record struct {
	Value           string   `json:"value" yaml:"value"`
	SelectedOption  string   `json:"selectedOption,omitempty" yaml:"selectedOption,omitempty"`
	SelectedOptions []string `json:"selectedOptions,omitempty" yaml:"selectedOptions,omitempty"`
	EntityID        string   `json:"value_entity_id,omitempty" yaml:"value_entity_id,omitempty"`
	FilePath        string   `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	FileName        string   `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	File            *Upload  `json:"-" yaml:"-"`
}

// HasFile reports whether a pending upload is attached.
func (r Record) HasFile() bool {
	return r.File != nil
}

// Clone returns a deep copy of the record. The pending upload is shared.
func (r Record) Clone() Record {
	out := r
	if r.SelectedOptions != nil {
		out.SelectedOptions = slices.Clone(r.SelectedOptions)
	}
	return out
}

// Shape returns the empty record for a question type.
func Shape(t model.QuestionType) Record {
	if t == model.QuestionTypeCheckbox {
		return Record{SelectedOptions: []string{}}
	}
	return Record{}
}

// Conform drops the fields that do not belong to the shape of t. Value is kept
// for every type because it mirrors the human readable answer.
func (r Record) Conform(t model.QuestionType) Record {
	out := Record{Value: r.Value}
	switch {
	case t == model.QuestionTypeCheckbox:
		out.SelectedOptions = slices.Clone(r.SelectedOptions)
		if out.SelectedOptions == nil {
			out.SelectedOptions = []string{}
		}
	case t.IsSingleChoice():
		out.SelectedOption = r.SelectedOption
	case t.IsEntity():
		out.SelectedOption = r.SelectedOption
		out.EntityID = r.EntityID
	case t == model.QuestionTypeFile:
		out.FilePath = r.FilePath
		out.FileName = r.FileName
		out.File = r.File
	}
	return out
}
