package orchestrator

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/reference"
	"github.com/goliatone/go-formdisplay/pkg/submission"
	"github.com/goliatone/go-formdisplay/pkg/validation"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

// Transport delivers a submission batch. graphql.Client satisfies it.
type Transport interface {
	SubmitBatch(ctx context.Context, batch submission.Batch) (submission.Result, error)
}

// Uploader stores a pending file and returns its URL. graphql.Client
// satisfies it.
type Uploader interface {
	UploadFile(ctx context.Context, upload answers.Upload) (string, error)
}

// Observer is notified of transport outcomes. metrics.Recorder satisfies it.
type Observer interface {
	SubmissionFinished(outcome submission.Outcome)
	UploadFinished(ok bool)
}

// Option customises a Session.
type Option func(*Session)

// WithEvaluator overrides the visibility evaluator.
func WithEvaluator(e *visibility.Evaluator) Option {
	return func(s *Session) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// WithValidator overrides the validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithEncoder overrides the submission encoder.
func WithEncoder(e *submission.Encoder) Option {
	return func(s *Session) {
		if e != nil {
			s.encoder = e
		}
	}
}

// WithTransport sets the submission transport.
func WithTransport(t Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

// WithUploader sets the uploader used for pending files at submit time.
func WithUploader(u Uploader) Option {
	return func(s *Session) {
		s.uploader = u
	}
}

// WithReference sets the country and city source.
func WithReference(l reference.Lister) Option {
	return func(s *Session) {
		s.reference = l
	}
}

// WithLocale sets the initial locale.
func WithLocale(locale string) Option {
	return func(s *Session) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithEntityID sets the entity the answers belong to. Defaults to the form's
// entity id.
func WithEntityID(id string) Option {
	return func(s *Session) {
		s.entityID = id
	}
}

// WithSubmissionID resumes an existing submission.
func WithSubmissionID(id string) Option {
	return func(s *Session) {
		s.submissionID = id
	}
}

// WithOnSaveSuccess registers a callback run after a successful submit.
func WithOnSaveSuccess(fn func(submission.Result)) Option {
	return func(s *Session) {
		s.onSaveSuccess = fn
	}
}

// WithOnSaveError registers a callback run when the transport or an upload
// fails.
func WithOnSaveError(fn func(error)) Option {
	return func(s *Session) {
		s.onSaveError = fn
	}
}

// WithAnswers overlays store on the answers seeded from the form. Records for
// known questions are conformed to the question type.
func WithAnswers(store *answers.Store) Option {
	return func(s *Session) {
		s.initial = store
	}
}

// WithObserver registers a transport Observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
