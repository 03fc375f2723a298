package model

import "strings"

// QuestionType enumerates the controls a question can render as.
type QuestionType string

const (
	QuestionTypeText      QuestionType = "text"
	QuestionTypeTextarea  QuestionType = "textarea"
	QuestionTypeEmail     QuestionType = "email"
	QuestionTypeNumber    QuestionType = "number"
	QuestionTypeSelect    QuestionType = "select"
	QuestionTypeRadio     QuestionType = "radio"
	QuestionTypeCheckbox  QuestionType = "checkbox"
	QuestionTypeFile      QuestionType = "file"
	QuestionTypeDate      QuestionType = "date"
	QuestionTypeTime      QuestionType = "time"
	QuestionTypeCountry   QuestionType = "country"
	QuestionTypeCity      QuestionType = "city"
	QuestionTypeHeader    QuestionType = "header"
	QuestionTypeSubheader QuestionType = "subheader"
	QuestionTypeParagraph QuestionType = "paragraph"

	// QuestionTypeBoolean and QuestionTypeDateTime are not offered by the
	// builder UI but the answer API stores typed values for them.
	QuestionTypeBoolean  QuestionType = "boolean"
	QuestionTypeDateTime QuestionType = "datetime"
)

// IsDisplayOnly reports whether the type renders static content only.
func (t QuestionType) IsDisplayOnly() bool {
	switch t {
	case QuestionTypeHeader, QuestionTypeSubheader, QuestionTypeParagraph:
		return true
	default:
		return false
	}
}

// IsSingleChoice reports whether answers carry one selected option.
func (t QuestionType) IsSingleChoice() bool {
	return t == QuestionTypeSelect || t == QuestionTypeRadio
}

// IsEntity reports whether answers resolve to an external entity reference.
func (t QuestionType) IsEntity() bool {
	return t == QuestionTypeCountry || t == QuestionTypeCity
}

// HasOptions reports whether the type is backed by the question's option list.
func (t QuestionType) HasOptions() bool {
	return t.IsSingleChoice() || t == QuestionTypeCheckbox
}

// Comparator names the operator a Condition applies.
type Comparator string

const (
	ComparatorEquals      Comparator = "equals"
	ComparatorNotEquals   Comparator = "not_equals"
	ComparatorContains    Comparator = "contains"
	ComparatorNotContains Comparator = "not_contains"
	ComparatorGreaterThan Comparator = "greater_than"
	ComparatorLessThan    Comparator = "less_than"
	ComparatorIsEmpty     Comparator = "is_empty"
	ComparatorIsNotEmpty  Comparator = "is_not_empty"
)

// Action is the polarity of a Condition.
type Action string

const (
	ActionShow Action = "show"
	ActionHide Action = "hide"
)

// Condition makes the owning question's visibility depend on the answer given
// to SourceQuestionID.
type Condition struct {
	ID               string     `json:"id,omitempty" yaml:"id,omitempty"`
	TargetQuestionID string     `json:"target_question_id,omitempty" yaml:"target_question_id,omitempty"`
	SourceQuestionID string     `json:"source_question_id" yaml:"source_question_id"`
	Comparator       Comparator `json:"comparator" yaml:"comparator"`
	Value            string     `json:"value" yaml:"value"`
	Action           Action     `json:"action" yaml:"action"`
}

// Option is a selectable choice. Conditions compare against Key, never ID.
type Option struct {
	ID       string        `json:"id" yaml:"id"`
	Key      string        `json:"key" yaml:"key"`
	Label    LocalizedText `json:"label,omitempty" yaml:"label,omitempty"`
	Position int           `json:"position,omitempty" yaml:"position,omitempty"`
	IsOther  bool          `json:"is_other,omitempty" yaml:"is_other,omitempty"`
	Settings any           `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// DisplayLabel resolves the option label for locale, falling back to Key and
// then ID.
func (o Option) DisplayLabel(locale string) string {
	if label := o.Label.In(locale); strings.TrimSpace(label) != "" {
		return label
	}
	if o.Key != "" {
		return o.Key
	}
	return o.ID
}

// PriorAnswer is a stored answer returned alongside the question. Only the
// fields matching the question type are populated by the API.
type PriorAnswer struct {
	ID              string   `json:"id,omitempty" yaml:"id,omitempty"`
	QuestionID      string   `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	ValueType       string   `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	ValueText       string   `json:"value_text,omitempty" yaml:"value_text,omitempty"`
	ValueNumber     *float64 `json:"value_number,omitempty" yaml:"value_number,omitempty"`
	ValueDate       string   `json:"value_date,omitempty" yaml:"value_date,omitempty"`
	ValueDateTime   string   `json:"value_datetime,omitempty" yaml:"value_datetime,omitempty"`
	ValueBoolean    *bool    `json:"value_boolean,omitempty" yaml:"value_boolean,omitempty"`
	ValueJSON       any      `json:"value_json,omitempty" yaml:"value_json,omitempty"`
	FilePath        string   `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	ValueEntityID   string   `json:"value_entity_id,omitempty" yaml:"value_entity_id,omitempty"`
	SelectedOptions []Option `json:"selected_options,omitempty" yaml:"selected_options,omitempty"`
}

// Question is a single entry of a form schema.
type Question struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type          QuestionType  `json:"type" yaml:"type"`
	Required      bool          `json:"required" yaml:"required"`
	IsUserVisible *bool         `json:"is_user_visible,omitempty" yaml:"is_user_visible,omitempty"`
	HasCondition  bool          `json:"has_condition,omitempty" yaml:"has_condition,omitempty"`
	Position      int           `json:"position,omitempty" yaml:"position,omitempty"`
	Label         LocalizedText `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder   LocalizedText `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	ErrorMessage  LocalizedText `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Settings      any           `json:"settings,omitempty" yaml:"settings,omitempty"`
	Options       []Option      `json:"options,omitempty" yaml:"options,omitempty"`
	Conditions    []Condition   `json:"conditionsTarget,omitempty" yaml:"conditionsTarget,omitempty"`
	Answer        *PriorAnswer  `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// UserVisible reports the is_user_visible flag. An absent flag counts as
// visible; only an explicit false hides the question.
func (q Question) UserVisible() bool {
	return q.IsUserVisible == nil || *q.IsUserVisible
}

// Option returns the option with the supplied identifier.
func (q Question) Option(id string) (Option, bool) {
	if id == "" {
		return Option{}, false
	}
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// DisplayLabel resolves the label for locale, falling back to Name and ID.
func (q Question) DisplayLabel(locale string) string {
	if label := q.Label.In(locale); strings.TrimSpace(label) != "" {
		return label
	}
	if q.Name != "" {
		return q.Name
	}
	return q.ID
}

// Form is the top-level schema returned for a form/entity pair.
type Form struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	ModelType   string     `json:"model_type,omitempty" yaml:"model_type,omitempty"`
	Status      string     `json:"status,omitempty" yaml:"status,omitempty"`
	PublishedAt string     `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	EntityID    string     `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Bool returns a pointer to v, for optional flags such as IsUserVisible.
func Bool(v bool) *bool {
	return &v
}

// FindQuestion returns the question with the supplied identifier.
func FindQuestion(questions []Question, id string) (Question, bool) {
	if id == "" {
		return Question{}, false
	}
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Question returns the question with the supplied identifier.
func (f Form) Question(id string) (Question, bool) {
	return FindQuestion(f.Questions, id)
}
