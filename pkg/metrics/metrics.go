// Package metrics exposes Prometheus counters for the display engine. A
// Recorder satisfies the observer interfaces of the visibility, validation
// and submission packages so callers wire one value into every component.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

const (
	DefaultNamespace = "formdisplay"

	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Option customises a Recorder.
type Option func(*Recorder)

// WithNamespace overrides the metric namespace.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry registers the collectors with registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// Recorder counts engine anomalies and outcomes.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	conditionsSkipped  *prometheus.CounterVec
	unknownComparators *prometheus.CounterVec
	validations        *prometheus.CounterVec
	validationErrors   prometheus.Counter
	numbersDefaulted   prometheus.Counter
	datesUnparsed      prometheus.Counter
	submissions        *prometheus.CounterVec
	uploads            *prometheus.CounterVec
}

// New builds a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	r := &Recorder{namespace: DefaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.conditionsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "visibility",
		Name:      "conditions_skipped_total",
		Help:      "Conditions skipped because their source could not be resolved.",
	}, []string{"reason"})
	r.unknownComparators = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "visibility",
		Name:      "unknown_comparators_total",
		Help:      "Conditions evaluated with an unrecognised comparator.",
	}, []string{"comparator"})
	r.validations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "validation",
		Name:      "passes_total",
		Help:      "Validation passes by outcome.",
	}, []string{"outcome"})
	r.validationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "validation",
		Name:      "errors_total",
		Help:      "Validation errors reported across all passes.",
	})
	r.numbersDefaulted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "submission",
		Name:      "numbers_defaulted_total",
		Help:      "Number answers encoded as 0 after failing to parse.",
	})
	r.datesUnparsed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "submission",
		Name:      "dates_unparsed_total",
		Help:      "Date answers passed through without normalisation.",
	})
	r.submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "submission",
		Name:      "batches_total",
		Help:      "Submission attempts by outcome.",
	}, []string{"outcome"})
	r.uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "submission",
		Name:      "uploads_total",
		Help:      "File uploads by outcome.",
	}, []string{"outcome"})

	r.registry.MustRegister(
		r.conditionsSkipped,
		r.unknownComparators,
		r.validations,
		r.validationErrors,
		r.numbersDefaulted,
		r.datesUnparsed,
		r.submissions,
		r.uploads,
	)
	return r
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ConditionSkipped implements visibility.Observer.
func (r *Recorder) ConditionSkipped(_, _ string, reason string) {
	r.conditionsSkipped.WithLabelValues(reason).Inc()
}

// UnknownComparator implements visibility.Observer.
func (r *Recorder) UnknownComparator(_ string, comparator model.Comparator) {
	r.unknownComparators.WithLabelValues(string(comparator)).Inc()
}

// ValidationCompleted implements validation.Observer.
func (r *Recorder) ValidationCompleted(valid bool, errors int) {
	outcome := OutcomeValid
	if !valid {
		outcome = OutcomeInvalid
	}
	r.validations.WithLabelValues(outcome).Inc()
	if errors > 0 {
		r.validationErrors.Add(float64(errors))
	}
}

// NumberDefaulted implements submission.Observer.
func (r *Recorder) NumberDefaulted(string) {
	r.numbersDefaulted.Inc()
}

// DateUnparsed implements submission.Observer.
func (r *Recorder) DateUnparsed(string) {
	r.datesUnparsed.Inc()
}

// SubmissionFinished records a transport attempt.
func (r *Recorder) SubmissionFinished(outcome submission.Outcome) {
	r.submissions.WithLabelValues(string(outcome)).Inc()
}

// UploadFinished records a file upload attempt.
func (r *Recorder) UploadFinished(ok bool) {
	outcome := submission.OutcomeSucceeded
	if !ok {
		outcome = submission.OutcomeFailed
	}
	r.uploads.WithLabelValues(string(outcome)).Inc()
}
