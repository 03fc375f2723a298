package visibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
)

func yesNo(id string) model.Question {
	return model.Question{
		ID:   id,
		Type: model.QuestionTypeSelect,
		Options: []model.Option{
			{ID: id + "-yes", Key: "yes"},
			{ID: id + "-no", Key: "no"},
		},
	}
}

func showWhen(id, source string, comparator model.Comparator, value string) model.Question {
	return model.Question{
		ID:   id,
		Type: model.QuestionTypeText,
		Conditions: []model.Condition{{
			SourceQuestionID: source,
			Comparator:       comparator,
			Value:            value,
			Action:           model.ActionShow,
		}},
	}
}

type recordingObserver struct {
	skipped []string
	unknown []model.Comparator
}

func (r *recordingObserver) ConditionSkipped(_, _, reason string) {
	r.skipped = append(r.skipped, reason)
}

func (r *recordingObserver) UnknownComparator(_ string, c model.Comparator) {
	r.unknown = append(r.unknown, c)
}

func TestIsVisible_NoConditions(t *testing.T) {
	t.Parallel()

	ev := New()
	store := answers.New()

	plain := model.Question{ID: "q", Type: model.QuestionTypeText}
	if !ev.IsVisible(plain, store, []model.Question{plain}) {
		t.Fatalf("question without conditions must be visible")
	}

	plain.IsUserVisible = model.Bool(false)
	if ev.IsVisible(plain, store, []model.Question{plain}) {
		t.Fatalf("is_user_visible=false must never be visible")
	}

	plain.IsUserVisible = model.Bool(true)
	if !ev.IsVisible(plain, store, []model.Question{plain}) {
		t.Fatalf("explicit is_user_visible=true should be visible")
	}
}

func TestIsVisible_UserFlagBeatsConditions(t *testing.T) {
	t.Parallel()

	a := yesNo("a")
	b := showWhen("b", "a", model.ComparatorEquals, "yes")
	b.IsUserVisible = model.Bool(false)
	questions := []model.Question{a, b}

	store := answers.Seed(questions)
	store.SelectOption("a", "a-yes", "Yes")

	if New().IsVisible(b, store, questions) {
		t.Fatalf("satisfied conditions must not override is_user_visible=false")
	}
}

func TestIsVisible_ShowConditionsAreConjunctive(t *testing.T) {
	t.Parallel()

	a := yesNo("a")
	c := yesNo("c")
	b := model.Question{
		ID:   "b",
		Type: model.QuestionTypeText,
		Conditions: []model.Condition{
			{SourceQuestionID: "a", Comparator: model.ComparatorEquals, Value: "yes", Action: model.ActionShow},
			{SourceQuestionID: "c", Comparator: model.ComparatorEquals, Value: "yes", Action: model.ActionShow},
		},
	}
	questions := []model.Question{a, c, b}
	store := answers.Seed(questions)
	ev := New()

	store.SelectOption("a", "a-yes", "Yes")
	store.SelectOption("c", "c-yes", "Yes")
	if !ev.IsVisible(b, store, questions) {
		t.Fatalf("all show conditions met, expected visible")
	}

	store.SelectOption("c", "c-no", "No")
	if ev.IsVisible(b, store, questions) {
		t.Fatalf("one show condition unmet, expected hidden")
	}

	store.SelectOption("c", "c-yes", "Yes")
	store.SelectOption("a", "a-no", "No")
	if ev.IsVisible(b, store, questions) {
		t.Fatalf("first show condition unmet, expected hidden")
	}
}

func TestIsVisible_HideCondition(t *testing.T) {
	t.Parallel()

	a := yesNo("a")
	b := model.Question{
		ID:   "b",
		Type: model.QuestionTypeText,
		Conditions: []model.Condition{
			{SourceQuestionID: "a", Comparator: model.ComparatorEquals, Value: "no", Action: model.ActionHide},
		},
	}
	questions := []model.Question{a, b}
	store := answers.Seed(questions)
	ev := New()

	if !ev.IsVisible(b, store, questions) {
		t.Fatalf("hide condition not met, expected visible")
	}
	store.SelectOption("a", "a-no", "No")
	if ev.IsVisible(b, store, questions) {
		t.Fatalf("hide condition met, expected hidden")
	}
}

func TestIsVisible_SkipsUnresolvableConditions(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	ev := New(WithObserver(obs))

	a := yesNo("a")
	b := model.Question{
		ID:   "b",
		Type: model.QuestionTypeText,
		Conditions: []model.Condition{
			{SourceQuestionID: "ghost", Comparator: model.ComparatorEquals, Value: "x", Action: model.ActionShow},
			{SourceQuestionID: "a", Comparator: model.ComparatorEquals, Value: "yes", Action: model.ActionShow},
		},
	}
	questions := []model.Question{a, b}

	// a is known but has no record at all, so both conditions are skipped.
	if !ev.IsVisible(b, answers.New(), questions) {
		t.Fatalf("unresolvable conditions should not block visibility")
	}
	if diff := cmp.Diff([]string{SkipMissingSource, SkipMissingAnswer}, obs.skipped); diff != "" {
		t.Fatalf("skip reasons mismatch (-want +got):\n%s", diff)
	}

	// Once a carries an answer record, its condition applies again.
	if ev.IsVisible(b, answers.Seed(questions), questions) {
		t.Fatalf("seeded but unanswered select should hide dependant")
	}
}

func TestIsVisible_UnknownComparatorNeverMatches(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	ev := New(WithObserver(obs))

	src := model.Question{ID: "src", Type: model.QuestionTypeText}
	show := showWhen("show", "src", "starts_with", "a")
	hide := show
	hide.ID = "hide"
	hide.Conditions = []model.Condition{{SourceQuestionID: "src", Comparator: "starts_with", Value: "a", Action: model.ActionHide}}
	questions := []model.Question{src, show, hide}

	store := answers.New()
	store.SetValue("src", "abc")

	if ev.IsVisible(show, store, questions) {
		t.Fatalf("unknown comparator with show action should hide")
	}
	if !ev.IsVisible(hide, store, questions) {
		t.Fatalf("unknown comparator with hide action should keep visible")
	}
	if len(obs.unknown) != 2 {
		t.Fatalf("expected two unknown comparator reports, got %v", obs.unknown)
	}
}

func TestActualValue(t *testing.T) {
	t.Parallel()

	box := model.Question{
		ID:   "box",
		Type: model.QuestionTypeCheckbox,
		Options: []model.Option{
			{ID: "o1", Key: "a"},
			{ID: "o2", Key: "b"},
			{ID: "o3", Key: "c"},
		},
	}

	store := answers.Seed([]model.Question{box})
	store.ToggleOption("box", "o2", true)
	store.ToggleOption("box", "o1", true)
	rec, _ := store.Get("box")
	if got := ActualValue(box, rec); got != "b,a" {
		t.Fatalf("selection order not preserved: %q", got)
	}

	store = answers.Seed([]model.Question{box})
	store.ToggleOption("box", "o1", true)
	store.ToggleOption("box", "o2", true)
	rec, _ = store.Get("box")
	if got := ActualValue(box, rec); got != "a,b" {
		t.Fatalf("checkbox join = %q, want a,b", got)
	}
	store.ToggleOption("box", "o2", false)
	rec, _ = store.Get("box")
	if got := ActualValue(box, rec); got != "a" {
		t.Fatalf("checkbox join after deselect = %q, want a", got)
	}

	country := model.Question{ID: "country", Type: model.QuestionTypeCountry}
	if got := ActualValue(country, answers.Record{Value: "Jordan", EntityID: "jo"}); got != "jo" {
		t.Fatalf("entity actual value = %q", got)
	}

	sel := yesNo("s")
	if got := ActualValue(sel, answers.Record{SelectedOption: "missing"}); got != "" {
		t.Fatalf("unknown option should resolve to empty, got %q", got)
	}
	if got := ActualValue(sel, answers.Record{SelectedOption: "s-yes", Value: "Yes"}); got != "yes" {
		t.Fatalf("select should resolve to option key, got %q", got)
	}

	text := model.Question{ID: "t", Type: model.QuestionTypeText}
	if got := ActualValue(text, answers.Record{Value: "raw"}); got != "raw" {
		t.Fatalf("text actual value = %q", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		comparator model.Comparator
		actual     string
		expected   string
		want       bool
		known      bool
	}{
		{"equals", model.ComparatorEquals, "yes", "yes", true, true},
		{"equals case sensitive", model.ComparatorEquals, "Yes", "yes", false, true},
		{"not equals", model.ComparatorNotEquals, "no", "yes", true, true},
		{"contains", model.ComparatorContains, "a,b,c", "b", true, true},
		{"contains miss", model.ComparatorContains, "a,c", "b", false, true},
		{"not contains", model.ComparatorNotContains, "a,c", "b", true, true},
		{"greater", model.ComparatorGreaterThan, "10", "9.5", true, true},
		{"greater equal values", model.ComparatorGreaterThan, "3", "3", false, true},
		{"greater non numeric", model.ComparatorGreaterThan, "abc", "1", false, true},
		{"greater partial number", model.ComparatorGreaterThan, "12abc", "1", false, true},
		{"greater NaN", model.ComparatorGreaterThan, "NaN", "1", false, true},
		{"less", model.ComparatorLessThan, " 2 ", "3", true, true},
		{"less non numeric expected", model.ComparatorLessThan, "2", "", false, true},
		{"is empty", model.ComparatorIsEmpty, "", "", true, true},
		{"whitespace not empty", model.ComparatorIsEmpty, " ", "", false, true},
		{"is not empty", model.ComparatorIsNotEmpty, "x", "", true, true},
		{"is not empty on empty", model.ComparatorIsNotEmpty, "", "", false, true},
		{"unknown", "matches", "x", "x", false, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, known := Compare(tc.comparator, tc.actual, tc.expected)
			if got != tc.want || known != tc.known {
				t.Fatalf("Compare(%s, %q, %q) = (%v, %v), want (%v, %v)",
					tc.comparator, tc.actual, tc.expected, got, known, tc.want, tc.known)
			}
		})
	}
}

func TestVisibleSet(t *testing.T) {
	t.Parallel()

	a := yesNo("a")
	b := showWhen("b", "a", model.ComparatorEquals, "yes")
	hidden := model.Question{ID: "internal", Type: model.QuestionTypeText, IsUserVisible: model.Bool(false)}
	header := model.Question{ID: "title", Type: model.QuestionTypeHeader}
	questions := []model.Question{header, a, b, hidden}

	store := answers.Seed(questions)
	ev := New()

	set := ev.VisibleSet(questions, store)
	if diff := cmp.Diff([]string{"title", "a"}, set.IDs()); diff != "" {
		t.Fatalf("initial visible set mismatch (-want +got):\n%s", diff)
	}

	store.SelectOption("a", "a-yes", "Yes")
	set = ev.VisibleSet(questions, store)
	if diff := cmp.Diff([]string{"title", "a", "b"}, set.IDs()); diff != "" {
		t.Fatalf("visible set after yes mismatch (-want +got):\n%s", diff)
	}
	if !set.Has("b") || set.Has("internal") || set.Len() != 3 {
		t.Fatalf("unexpected membership: %v", set.IDs())
	}
	if !set.Equal(NewSet("title", "a", "b", "a")) {
		t.Fatalf("NewSet should drop duplicates and compare by order")
	}
}
