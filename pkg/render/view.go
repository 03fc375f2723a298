package render

import (
	"path"
	"slices"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/i18n"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/theme"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

// View is the locale-resolved form handed to templates and prompt drivers.
type View struct {
	FormID      string            `json:"form_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Locale      string            `json:"locale"`
	Dir         string            `json:"dir"`
	ReadOnly    bool              `json:"read_only"`
	Action      string            `json:"action,omitempty"`
	SubmitLabel string            `json:"submit_label"`
	NoAnswer    string            `json:"no_answer"`
	ChooseLabel string            `json:"choose_label"`
	Questions   []QuestionView    `json:"questions"`
	Hidden      []HiddenField     `json:"hidden,omitempty"`
	FormErrors  []string          `json:"form_errors,omitempty"`
	Classes     map[string]string `json:"classes"`
	Theme       ThemeView         `json:"theme"`
}

// ThemeView is the subset of a renderer theme templates use.
type ThemeView struct {
	Name       string `json:"name,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Style      string `json:"style,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
}

// QuestionView is one visible question with its answer resolved for display.
type QuestionView struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	InputType   string       `json:"input_type,omitempty"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder,omitempty"`
	Required    bool         `json:"required"`
	DisplayOnly bool         `json:"display_only"`
	Error       string       `json:"error,omitempty"`
	Value       string       `json:"value,omitempty"`
	Display     string       `json:"display,omitempty"`
	EntityID    string       `json:"entity_id,omitempty"`
	FilePath    string       `json:"file_path,omitempty"`
	FileName    string       `json:"file_name,omitempty"`
	Options     []OptionView `json:"options,omitempty"`
}

// OptionView is a choice with its selection state.
type OptionView struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// BuildView resolves form for opts. Without opts.Answers the store is seeded
// from the form's prior answers. When opts.Visible is nil the visible set is
// computed from the answers.
func BuildView(form model.Form, opts RenderOptions) View {
	locale := opts.Locale
	if strings.TrimSpace(locale) == "" {
		locale = i18n.DefaultLocale
	}
	translator := opts.Translator
	if translator == nil {
		translator = i18n.DefaultCatalog
	}
	store := opts.Answers
	if store == nil {
		store = answers.Seed(form.Questions)
	}
	visible := opts.Visible
	if visible == nil {
		set := visibility.New().VisibleSet(form.Questions, store)
		visible = &set
	}

	view := View{
		FormID:      form.ID,
		Title:       form.Name,
		Description: form.Description,
		Locale:      locale,
		Dir:         i18n.Direction(locale),
		ReadOnly:    opts.ReadOnly,
		Action:      opts.Action,
		SubmitLabel: i18n.Translate(translator, locale, i18n.MessageSubmit, "Submit"),
		NoAnswer:    i18n.Translate(translator, locale, i18n.MessageNoAnswer, "No answer"),
		ChooseLabel: i18n.Translate(translator, locale, i18n.MessageChooseOption, "Select an option"),
		Questions:   []QuestionView{},
		Hidden:      SortedHiddenFields(MergeHiddenFields(opts.Hidden...)),
		FormErrors:  NormalizeMessages(opts.FormErrors),
		Classes:     ResolveClasses(opts.Classes),
		Theme:       themeView(opts.Theme),
	}

	for _, q := range opts.Subset.Apply(form.Questions) {
		if !q.UserVisible() || !visible.Has(q.ID) {
			continue
		}
		rec, _ := store.Get(q.ID)
		view.Questions = append(view.Questions, questionView(q, rec, opts.Errors[q.ID], locale))
	}
	return view
}

func questionView(q model.Question, rec answers.Record, errMsg, locale string) QuestionView {
	qv := QuestionView{
		ID:          q.ID,
		Type:        string(q.Type),
		InputType:   inputType(q.Type),
		Label:       q.DisplayLabel(locale),
		Placeholder: q.Placeholder.In(locale),
		Required:    q.Required,
		DisplayOnly: q.Type.IsDisplayOnly(),
		Error:       errMsg,
		Value:       rec.Value,
		FilePath:    rec.FilePath,
		FileName:    rec.FileName,
	}
	if q.Type.IsEntity() {
		qv.EntityID = rec.EntityID
		if qv.EntityID == "" {
			qv.EntityID = rec.SelectedOption
		}
	}
	if qv.DisplayOnly {
		qv.Required = false
		return qv
	}

	for _, opt := range q.Options {
		selected := opt.ID == rec.SelectedOption
		if q.Type == model.QuestionTypeCheckbox {
			selected = slices.Contains(rec.SelectedOptions, opt.ID)
		}
		qv.Options = append(qv.Options, OptionView{
			ID:       opt.ID,
			Key:      opt.Key,
			Label:    opt.DisplayLabel(locale),
			Selected: selected,
		})
	}
	qv.Display = displayValue(q, rec, locale)
	return qv
}

// DisplayValue renders an answer as read-only text.
func DisplayValue(q model.Question, rec answers.Record, locale string) string {
	return displayValue(q, rec, locale)
}

func displayValue(q model.Question, rec answers.Record, locale string) string {
	switch {
	case q.Type == model.QuestionTypeCheckbox:
		labels := make([]string, 0, len(rec.SelectedOptions))
		for _, id := range rec.SelectedOptions {
			if opt, ok := q.Option(id); ok {
				labels = append(labels, opt.DisplayLabel(locale))
			}
		}
		return strings.Join(labels, ", ")
	case q.Type.IsSingleChoice():
		if opt, ok := q.Option(rec.SelectedOption); ok {
			return opt.DisplayLabel(locale)
		}
		return rec.Value
	case q.Type == model.QuestionTypeDate:
		return i18n.FormatDate(rec.Value, locale)
	case q.Type == model.QuestionTypeFile:
		if rec.FileName != "" {
			return rec.FileName
		}
		if rec.FilePath != "" {
			return path.Base(rec.FilePath)
		}
		return ""
	default:
		return rec.Value
	}
}

func inputType(t model.QuestionType) string {
	switch t {
	case model.QuestionTypeEmail, model.QuestionTypeNumber, model.QuestionTypeDate,
		model.QuestionTypeTime, model.QuestionTypeFile:
		return string(t)
	case model.QuestionTypeDateTime:
		return "datetime-local"
	default:
		return "text"
	}
}

func themeView(cfg *gotheme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{}
	}
	tv := ThemeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   theme.CSSVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		tv.Stylesheet = cfg.AssetURL("stylesheet")
	}
	return tv
}
