package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/metrics"
	"github.com/goliatone/go-formdisplay/pkg/reference"
	"github.com/goliatone/go-formdisplay/pkg/submission"
	"github.com/goliatone/go-formdisplay/pkg/testsupport"
)

type fakeTransport struct {
	batches []submission.Batch
	result  submission.Result
	err     error
}

func (f *fakeTransport) SubmitBatch(_ context.Context, batch submission.Batch) (submission.Result, error) {
	f.batches = append(f.batches, batch)
	return f.result, f.err
}

type fakeUploader struct {
	uploads []answers.Upload
	err     error
}

func (f *fakeUploader) UploadFile(_ context.Context, upload answers.Upload) (string, error) {
	f.uploads = append(f.uploads, upload)
	if f.err != nil {
		return "", f.err
	}
	return "https://files.example.com/" + upload.Name, nil
}

type fakeLister struct {
	countries []reference.Entity
	cities    map[string][]reference.Entity
	// before runs inside Cities, ahead of returning, to simulate input that
	// lands while the request is in flight.
	before func()
}

func (f *fakeLister) Countries(context.Context, string) ([]reference.Entity, error) {
	return f.countries, nil
}

func (f *fakeLister) Cities(_ context.Context, country, _ string) ([]reference.Entity, error) {
	if f.before != nil {
		f.before()
	}
	list, ok := f.cities[country]
	if !ok {
		return []reference.Entity{}, fmt.Errorf("no cities for %s", country)
	}
	return list, nil
}

type outcomes struct {
	mu          sync.Mutex
	submissions []submission.Outcome
	uploads     []bool
}

func (o *outcomes) SubmissionFinished(outcome submission.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, outcome)
}

func (o *outcomes) UploadFinished(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads = append(o.uploads, ok)
}

var _ Observer = (*metrics.Recorder)(nil)

func newTripSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return New(testsupport.MustLoadForm(t, "testdata/trip.yaml"), opts...)
}

func TestSession_ConditionalVisibilityScenario(t *testing.T) {
	t.Parallel()

	s := newTripSession(t)
	if s.IsVisible("destination") {
		t.Fatal("destination must start hidden while travelling is unanswered")
	}

	if err := s.SelectOption("travelling", "opt-yes"); err != nil {
		t.Fatalf("select yes: %v", err)
	}
	if !s.IsVisible("destination") {
		t.Fatal("destination must be visible after selecting yes")
	}

	res := s.Validate()
	if res.Valid {
		t.Fatal("expected destination to be required")
	}
	if got := s.Errors()["destination"]; got != "Tell us where you are going" {
		t.Fatalf("destination error = %q", got)
	}

	if err := s.SelectOption("travelling", "opt-no"); err != nil {
		t.Fatalf("select no: %v", err)
	}
	if s.IsVisible("destination") {
		t.Fatal("destination must be hidden after selecting no")
	}

	res = s.Validate()
	if !res.Valid {
		t.Fatalf("expected valid form, got %v", res.Errors)
	}
	if _, ok := s.Errors()["destination"]; ok {
		t.Fatal("hidden question error must be cleared on revalidation")
	}
}

func TestSession_InputClearsQuestionError(t *testing.T) {
	t.Parallel()

	s := newTripSession(t)
	s.Validate()
	if _, ok := s.Errors()["travelling"]; !ok {
		t.Fatal("expected travelling to be required")
	}
	if err := s.SelectOption("travelling", "opt-no"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, ok := s.Errors()["travelling"]; ok {
		t.Fatal("input must clear the question's error")
	}
}

func TestSession_SelectOptionUsesLocaleLabel(t *testing.T) {
	t.Parallel()

	s := newTripSession(t, WithLocale("ar"))
	if err := s.SelectOption("travelling", "opt-yes"); err != nil {
		t.Fatalf("select: %v", err)
	}
	rec, _ := s.Answer("travelling")
	if rec.SelectedOption != "opt-yes" || rec.Value != "نعم" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSession_HandlerErrors(t *testing.T) {
	t.Parallel()

	s := newTripSession(t)
	if err := s.SetValue("missing", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if err := s.SetValue("travelling", "yes"); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
	if err := s.SelectOption("travelling", "opt-maybe"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if err := s.ToggleOption("travelling", "opt-yes", true); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
	if err := s.SetEntity("destination", "1", "Jordan"); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
}

func TestSession_CountryChangeClearsCities(t *testing.T) {
	t.Parallel()

	s := newTripSession(t)
	if err := s.SetEntity("country", "1", "Jordan"); err != nil {
		t.Fatalf("country: %v", err)
	}
	if err := s.SetEntity("city", "101", "Amman"); err != nil {
		t.Fatalf("city: %v", err)
	}
	if err := s.SetEntity("country", "2", "Saudi Arabia"); err != nil {
		t.Fatalf("country: %v", err)
	}

	city, _ := s.Answer("city")
	if diff := cmp.Diff(answers.Record{}, city); diff != "" {
		t.Fatalf("city not cleared (-want +got):\n%s", diff)
	}
	for _, key := range []string{answers.KeySelectedCountry, answers.KeyCountryID} {
		rec, ok := s.Answer(key)
		if !ok || rec.Value != "2" {
			t.Fatalf("reserved key %s = %+v", key, rec)
		}
	}
	if got := s.Batch(); len(got.Answers) != 5 {
		t.Fatalf("reserved keys must not be encoded, got %d answers", len(got.Answers))
	}
}

func TestSession_LoadCities(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{
		countries: []reference.Entity{{ID: "1", Value: "JO", Label: "Jordan"}},
		cities: map[string][]reference.Entity{
			"JO": {{ID: "101", Label: "Amman"}},
		},
	}
	s := newTripSession(t, WithReference(lister))

	if _, err := s.LoadCountries(testsupport.Context()); err != nil {
		t.Fatalf("countries: %v", err)
	}
	if list, err := s.LoadCities(testsupport.Context(), "country"); err != nil || len(list) != 0 {
		t.Fatalf("no country selected: list=%v err=%v", list, err)
	}

	if err := s.SelectCountry("country", s.Countries()[0]); err != nil {
		t.Fatalf("select country: %v", err)
	}
	list, err := s.LoadCities(testsupport.Context(), "country")
	if err != nil {
		t.Fatalf("cities: %v", err)
	}
	if diff := cmp.Diff(lister.cities["JO"], list); diff != "" {
		t.Fatalf("cities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(list, s.Cities()); diff != "" {
		t.Fatalf("session cities mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_LoadCitiesDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{
		cities: map[string][]reference.Entity{
			"1": {{ID: "101", Label: "Amman"}},
		},
	}
	s := newTripSession(t, WithReference(lister))
	if err := s.SetEntity("country", "1", "Jordan"); err != nil {
		t.Fatalf("country: %v", err)
	}
	lister.before = func() {
		if err := s.SetEntity("country", "2", "Saudi Arabia"); err != nil {
			t.Errorf("country change: %v", err)
		}
	}

	list, err := s.LoadCities(testsupport.Context(), "country")
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if len(list) != 0 || len(s.Cities()) != 0 {
		t.Fatalf("stale list must be discarded, got %v / %v", list, s.Cities())
	}
}

func TestSession_SubmitInvalidSkipsTransport(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	s := newTripSession(t, WithTransport(transport))

	if _, err := s.Submit(testsupport.Context()); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if len(transport.batches) != 0 {
		t.Fatal("transport must not be called for an invalid form")
	}
}

func TestSession_SubmitAdoptsSubmissionID(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{result: submission.Result{Success: true, SubmissionID: "sub-1", AnswersCount: 1}}
	uploader := &fakeUploader{}
	obs := &outcomes{}
	var saved []submission.Result
	s := newTripSession(t,
		WithTransport(transport),
		WithUploader(uploader),
		WithObserver(obs),
		WithOnSaveSuccess(func(r submission.Result) { saved = append(saved, r) }),
	)

	if err := s.SelectOption("travelling", "opt-no"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.AttachFile("ticket", answers.Upload{Name: "ticket.pdf", Data: []byte("%PDF")}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if _, err := s.Submit(testsupport.Context()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit(testsupport.Context()); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if len(uploader.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(uploader.uploads))
	}
	first, second := transport.batches[0], transport.batches[1]
	if first.FormID != "form-trip" || first.EntityID == nil || *first.EntityID != "ent-7" {
		t.Fatalf("unexpected identity: %+v", first)
	}
	if first.SubmissionID != "" || second.SubmissionID != "sub-1" {
		t.Fatalf("submission ids = %q, %q", first.SubmissionID, second.SubmissionID)
	}
	ticket, ok := first.Answer("ticket")
	if !ok || ticket.FilePath != "https://files.example.com/ticket.pdf" || ticket.ValueText != ticket.FilePath {
		t.Fatalf("unexpected ticket answer: %+v", ticket)
	}
	if len(saved) != 2 || s.SubmissionID() != "sub-1" {
		t.Fatalf("callbacks=%d submission=%q", len(saved), s.SubmissionID())
	}
	if diff := cmp.Diff([]submission.Outcome{submission.OutcomeSucceeded, submission.OutcomeSucceeded}, obs.submissions); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SubmitFailureKeepsAnswers(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		result: submission.Result{Success: false, Message: "form closed"},
		err:    fmt.Errorf("%w: form closed", submission.ErrRejected),
	}
	obs := &outcomes{}
	var failures []error
	s := newTripSession(t,
		WithTransport(transport),
		WithObserver(obs),
		WithOnSaveError(func(err error) { failures = append(failures, err) }),
	)
	if err := s.SelectOption("travelling", "opt-no"); err != nil {
		t.Fatalf("select: %v", err)
	}
	before := s.Store()

	res, err := s.Submit(testsupport.Context())
	if !errors.Is(err, submission.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if res.Message != "form closed" {
		t.Fatalf("result message = %q", res.Message)
	}
	if len(failures) != 1 {
		t.Fatalf("error callback calls = %d", len(failures))
	}
	if diff := cmp.Diff(before.Records(), s.Store().Records()); diff != "" {
		t.Fatalf("store changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]submission.Outcome{submission.OutcomeRejected}, obs.submissions); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SubmitUploadFailure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{result: submission.Result{Success: true}}
	s := newTripSession(t,
		WithTransport(transport),
		WithUploader(&fakeUploader{err: errors.New("disk full")}),
	)
	if err := s.SelectOption("travelling", "opt-no"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.AttachFile("ticket", answers.Upload{Name: "ticket.pdf"}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := s.Submit(testsupport.Context()); err == nil {
		t.Fatal("expected upload error")
	}
	if len(transport.batches) != 0 {
		t.Fatal("transport must not run after a failed upload")
	}
	rec, _ := s.Answer("ticket")
	if !rec.HasFile() || rec.FilePath != "" {
		t.Fatalf("pending upload must be kept: %+v", rec)
	}
}

func TestSession_WithAnswersOverlaysSeed(t *testing.T) {
	t.Parallel()

	initial := answers.New()
	initial.Set("travelling", answers.Record{Value: "Yes", SelectedOption: "opt-yes", EntityID: "stray"})
	initial.SetValue("destination", "Petra")

	s := newTripSession(t, WithAnswers(initial))
	if !s.IsVisible("destination") {
		t.Fatal("destination must be visible from the overlaid answer")
	}
	rec, _ := s.Answer("travelling")
	if diff := cmp.Diff(answers.Record{Value: "Yes", SelectedOption: "opt-yes"}, rec); diff != "" {
		t.Fatalf("travelling mismatch (-want +got):\n%s", diff)
	}
	if res := s.Validate(); !res.Valid {
		t.Fatalf("expected valid form, got %v", res.Errors)
	}
}
