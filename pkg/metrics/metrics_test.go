package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formdisplay/pkg/submission"
	"github.com/goliatone/go-formdisplay/pkg/validation"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

var (
	_ visibility.Observer = (*Recorder)(nil)
	_ validation.Observer = (*Recorder)(nil)
	_ submission.Observer = (*Recorder)(nil)
)

func TestRecorderCounts(t *testing.T) {
	t.Parallel()

	r := New()
	r.ConditionSkipped("q2", "q1", visibility.SkipMissingAnswer)
	r.ConditionSkipped("q3", "q9", visibility.SkipMissingAnswer)
	r.UnknownComparator("q2", "starts_with")
	r.ValidationCompleted(false, 3)
	r.ValidationCompleted(true, 0)
	r.NumberDefaulted("q4")
	r.DateUnparsed("q5")
	r.SubmissionFinished(submission.OutcomeRejected)
	r.UploadFinished(true)

	if got := testutil.ToFloat64(r.conditionsSkipped.WithLabelValues(visibility.SkipMissingAnswer)); got != 2 {
		t.Fatalf("conditions skipped = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.unknownComparators.WithLabelValues("starts_with")); got != 1 {
		t.Fatalf("unknown comparators = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.validations.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Fatalf("invalid passes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.validationErrors); got != 3 {
		t.Fatalf("validation errors = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.numbersDefaulted); got != 1 {
		t.Fatalf("numbers defaulted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.datesUnparsed); got != 1 {
		t.Fatalf("dates unparsed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.submissions.WithLabelValues(string(submission.OutcomeRejected))); got != 1 {
		t.Fatalf("rejected submissions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.uploads.WithLabelValues(string(submission.OutcomeSucceeded))); got != 1 {
		t.Fatalf("uploads = %v, want 1", got)
	}
}

func TestRecorderHandler(t *testing.T) {
	t.Parallel()

	r := New(WithNamespace("forms"))
	r.ValidationCompleted(true, 0)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `forms_validation_passes_total{outcome="valid"} 1`) {
		t.Fatalf("exposition missing validation counter:\n%s", rec.Body.String())
	}
}
