package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/reference"
	"github.com/goliatone/go-formdisplay/pkg/validation"
)

// Filler walks a session's questions in schema order and records each answer
// through the session's input handlers. Visibility is checked at prompt time,
// so earlier answers decide which later questions are asked.
type Filler struct {
	cfg    config
	policy *bluemonday.Policy
}

// NewFiller returns a filler using the survey driver unless one is supplied.
func NewFiller(options ...Option) *Filler {
	return &Filler{
		cfg:    newConfig(options),
		policy: bluemonday.StrictPolicy(),
	}
}

// Fill asks every visible question, then re-asks the invalid ones until the
// session validates or the correction rounds run out.
func (f *Filler) Fill(ctx context.Context, s *orchestrator.Session) (validation.Result, error) {
	questions := s.Form().Questions
	for _, q := range questions {
		if err := f.ask(ctx, s, q); err != nil {
			return validation.Result{}, err
		}
	}

	for round := 0; ; round++ {
		res := s.Validate()
		if res.Valid {
			return res, nil
		}
		if round >= f.cfg.rounds {
			return res, ErrStillInvalid
		}
		for _, q := range questions {
			msg, ok := res.Errors[q.ID]
			if !ok {
				continue
			}
			if err := f.info(ctx, f.cfg.theme.ErrorPrefix+q.DisplayLabel(s.Locale())+": "+msg); err != nil {
				return res, err
			}
			if err := f.ask(ctx, s, q); err != nil {
				return res, err
			}
		}
	}
}

func (f *Filler) ask(ctx context.Context, s *orchestrator.Session, q model.Question) error {
	if !q.UserVisible() || !s.IsVisible(q.ID) {
		return nil
	}
	locale := s.Locale()
	label := f.policy.Sanitize(q.DisplayLabel(locale))
	if q.Type.IsDisplayOnly() {
		return f.info(ctx, f.cfg.theme.InfoPrefix+label)
	}
	message := label
	if q.Required {
		message += " *"
	}
	help := q.Placeholder.In(locale)
	rec, _ := s.Answer(q.ID)

	switch {
	case q.Type == model.QuestionTypeCheckbox:
		return f.askCheckbox(ctx, s, q, message, help, rec, locale)
	case q.Type.IsSingleChoice():
		if len(q.Options) == 0 {
			return nil
		}
		labels := make([]string, len(q.Options))
		for i, opt := range q.Options {
			labels[i] = opt.DisplayLabel(locale)
		}
		idx, err := f.cfg.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: slices.IndexFunc(q.Options, func(o model.Option) bool { return o.ID == rec.SelectedOption }),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(q.Options) {
			return nil
		}
		return s.SelectOption(q.ID, q.Options[idx].ID)
	case q.Type == model.QuestionTypeCountry:
		list := s.Countries()
		if len(list) == 0 {
			var err error
			if list, err = s.LoadCountries(ctx); err != nil {
				f.cfg.logger.Warn("tui: countries unavailable", "question", q.ID, "error", err)
			}
		}
		return f.askEntity(ctx, s, q, message, help, rec, list)
	case q.Type == model.QuestionTypeCity:
		var list []reference.Entity
		if country, ok := countryQuestion(s.Form().Questions); ok {
			var err error
			if list, err = s.LoadCities(ctx, country.ID); err != nil {
				f.cfg.logger.Warn("tui: cities unavailable", "question", q.ID, "error", err)
			}
		}
		return f.askEntity(ctx, s, q, message, help, rec, list)
	case q.Type == model.QuestionTypeFile:
		return f.askFile(ctx, s, q, message, help, rec)
	case q.Type == model.QuestionTypeBoolean:
		current, _ := strconv.ParseBool(rec.Value)
		v, err := f.cfg.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current, Help: help})
		if err != nil {
			return err
		}
		return s.SetValue(q.ID, strconv.FormatBool(v))
	case q.Type == model.QuestionTypeTextarea:
		v, err := f.cfg.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: rec.Value, Help: help})
		if err != nil {
			return err
		}
		return s.SetValue(q.ID, v)
	default:
		v, err := f.cfg.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   rec.Value,
			Help:      help,
			Validator: inputValidator(q.Type),
		})
		if err != nil {
			return err
		}
		return s.SetValue(q.ID, v)
	}
}

func (f *Filler) askCheckbox(ctx context.Context, s *orchestrator.Session, q model.Question, message, help string, rec answers.Record, locale string) error {
	if len(q.Options) == 0 {
		return nil
	}
	labels := make([]string, len(q.Options))
	var defaults []int
	for i, opt := range q.Options {
		labels[i] = opt.DisplayLabel(locale)
		if slices.Contains(rec.SelectedOptions, opt.ID) {
			defaults = append(defaults, i)
		}
	}
	picked, err := f.cfg.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  labels,
		Defaults: defaults,
		Help:     help,
	})
	if err != nil {
		return err
	}
	for i, opt := range q.Options {
		if err := s.ToggleOption(q.ID, opt.ID, slices.Contains(picked, i)); err != nil {
			return err
		}
	}
	return nil
}

// askEntity offers list as choices. Without a list the entity id is typed in.
func (f *Filler) askEntity(ctx context.Context, s *orchestrator.Session, q model.Question, message, help string, rec answers.Record, list []reference.Entity) error {
	if len(list) == 0 {
		v, err := f.cfg.driver.Input(ctx, InputConfig{Message: message, Default: rec.EntityID, Help: help})
		if err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		if v == "" || v == rec.EntityID {
			return nil
		}
		return s.SetEntity(q.ID, v, v)
	}

	labels := make([]string, len(list))
	for i, e := range list {
		labels[i] = e.Label
	}
	idx, err := f.cfg.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: slices.IndexFunc(list, func(e reference.Entity) bool { return e.ID == rec.EntityID }),
		Help:         help,
		PageSize:     10,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(list) {
		return nil
	}
	if list[idx].ID == rec.EntityID {
		return nil
	}
	return s.SetEntity(q.ID, list[idx].ID, list[idx].Label)
}

func (f *Filler) askFile(ctx context.Context, s *orchestrator.Session, q model.Question, message, help string, rec answers.Record) error {
	current := rec.FileName
	if current == "" && rec.File != nil {
		current = rec.File.Name
	}
	v, err := f.cfg.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: help})
	if err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if v == "" || v == current {
		return nil
	}
	data, err := f.cfg.readFile(v)
	if err != nil {
		return fmt.Errorf("tui: read %s: %w", v, err)
	}
	return s.AttachFile(q.ID, answers.Upload{
		Name:        filepath.Base(v),
		ContentType: mime.TypeByExtension(filepath.Ext(v)),
		Data:        data,
	})
}

func (f *Filler) info(ctx context.Context, msg string) error {
	return f.cfg.driver.Info(ctx, msg)
}

func countryQuestion(questions []model.Question) (model.Question, bool) {
	i := slices.IndexFunc(questions, func(q model.Question) bool { return q.Type == model.QuestionTypeCountry })
	if i < 0 {
		return model.Question{}, false
	}
	return questions[i], true
}

var errNotNumber = errors.New("enter a number")

func inputValidator(t model.QuestionType) func(string) error {
	switch t {
	case model.QuestionTypeNumber:
		return func(v string) error {
			if strings.TrimSpace(v) == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return errNotNumber
			}
			return nil
		}
	case model.QuestionTypeEmail:
		return func(v string) error {
			if strings.TrimSpace(v) == "" || validation.EmailFormat(v) {
				return nil
			}
			return errors.New("enter a valid email address")
		}
	default:
		return nil
	}
}
