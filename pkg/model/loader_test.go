package model_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

func TestParseForm_GraphQLEnvelope(t *testing.T) {
	t.Parallel()

	form, err := model.LoadFile("testdata/envelope.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if form.ID != "form-1" || form.EntityID != "entity-9" {
		t.Fatalf("unexpected form header: %+v", form)
	}

	var ids []string
	for _, q := range form.Questions {
		ids = append(ids, q.ID)
	}
	if diff := cmp.Diff([]string{"q-intro", "q-visit", "q-when"}, ids); diff != "" {
		t.Fatalf("questions not sorted by position (-want +got):\n%s", diff)
	}

	visit, ok := form.Question("q-visit")
	if !ok {
		t.Fatalf("q-visit missing")
	}
	if visit.Options[0].Key != "yes" {
		t.Fatalf("options not sorted by position: %+v", visit.Options)
	}
	if visit.Answer == nil || len(visit.Answer.SelectedOptions) != 1 {
		t.Fatalf("prior answer not decoded: %+v", visit.Answer)
	}
	if got := visit.Label.In("ar"); got != "هل زرت من قبل؟" {
		t.Fatalf("arabic label = %q", got)
	}

	intro, _ := form.Question("q-intro")
	if got := intro.Label.In("ar"); got != "Welcome" {
		t.Fatalf("plain string label should apply to every locale, got %q", got)
	}
	if !intro.Type.IsDisplayOnly() {
		t.Fatalf("header must be display-only")
	}

	when, _ := form.Question("q-when")
	if len(when.Conditions) != 1 || when.Conditions[0].Comparator != model.ComparatorEquals {
		t.Fatalf("conditions not decoded: %+v", when.Conditions)
	}
	if got := when.Label.In("ar"); got != "When?" {
		t.Fatalf("null locale entry should fall back to en, got %q", got)
	}
	if !when.UserVisible() {
		t.Fatalf("absent is_user_visible must count as visible")
	}
}

func TestParseForm_YAML(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	form, err := model.ParseForm(data, "contact.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(form.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(form.Questions))
	}
	name := form.Questions[0]
	if name.ErrorMessage.In("fr") != "Tell us your name" {
		t.Fatalf("error message fallback failed: %+v", name.ErrorMessage)
	}
	if got := form.Questions[1].Label.In("ar"); got != "Email" {
		t.Fatalf("scalar label = %q", got)
	}
	if form.Questions[2].UserVisible() {
		t.Fatalf("explicit is_user_visible=false must hide the question")
	}
}

func TestParseForm_Errors(t *testing.T) {
	t.Parallel()

	if _, err := model.ParseForm([]byte("   "), "empty.json"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := model.ParseForm([]byte(`{"id":"f","questions":[{"id":"a"},{"id":"a"}]}`), "dup.json"); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := model.ParseForm([]byte(`{"id":"f","questions":[{"id":" "}]}`), "blank.json"); err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestQuestionTypePredicates(t *testing.T) {
	t.Parallel()

	for _, typ := range []model.QuestionType{model.QuestionTypeHeader, model.QuestionTypeSubheader, model.QuestionTypeParagraph} {
		if !typ.IsDisplayOnly() {
			t.Fatalf("%s should be display-only", typ)
		}
	}
	if model.QuestionTypeText.IsDisplayOnly() {
		t.Fatalf("text is not display-only")
	}
	if !model.QuestionTypeRadio.IsSingleChoice() || model.QuestionTypeCheckbox.IsSingleChoice() {
		t.Fatalf("single choice predicate mismatch")
	}
	if !model.QuestionTypeCity.IsEntity() || model.QuestionTypeSelect.IsEntity() {
		t.Fatalf("entity predicate mismatch")
	}
}

func TestOptionDisplayLabel(t *testing.T) {
	opt := model.Option{ID: "o1", Key: "yes", Label: model.LocalizedText{"en": "Yes", "ar": "نعم"}}
	if got := opt.DisplayLabel("ar"); got != "نعم" {
		t.Fatalf("ar label = %q", got)
	}
	if got := opt.DisplayLabel("fr"); got != "Yes" {
		t.Fatalf("fr label = %q", got)
	}
	opt.Label = nil
	if got := opt.DisplayLabel("en"); got != "yes" {
		t.Fatalf("key fallback = %q", got)
	}
	opt.Key = ""
	if got := opt.DisplayLabel("en"); got != "o1" {
		t.Fatalf("id fallback = %q", got)
	}
}
