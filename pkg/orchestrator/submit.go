package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

// Submit validates the visible questions, uploads pending files, and hands
// the encoded batch to the transport. Validation failures return ErrInvalid
// without touching the transport. Transport and upload failures are reported
// to the error callback and leave the answers as they were.
func (s *Session) Submit(ctx context.Context) (submission.Result, error) {
	s.mu.Lock()
	result := s.validateLocked()
	if !result.Valid {
		s.mu.Unlock()
		return submission.Result{}, ErrInvalid
	}
	if s.transport == nil {
		s.mu.Unlock()
		return submission.Result{}, ErrNoTransport
	}
	pending := s.pendingUploads()
	s.mu.Unlock()

	for _, p := range pending {
		if err := s.upload(ctx, p); err != nil {
			return submission.Result{}, s.fail(err)
		}
	}

	s.mu.Lock()
	batch := s.encoder.Encode(s.store, s.questions, s.identity())
	s.mu.Unlock()

	res, err := s.transport.SubmitBatch(ctx, batch)
	if err != nil {
		s.observe(func(o Observer) { o.SubmissionFinished(submission.OutcomeOf(err)) })
		return res, s.fail(fmt.Errorf("orchestrator: submit: %w", err))
	}

	s.mu.Lock()
	if s.submissionID == "" && res.SubmissionID != "" {
		s.submissionID = res.SubmissionID
	}
	s.mu.Unlock()

	s.observe(func(o Observer) { o.SubmissionFinished(submission.OutcomeSucceeded) })
	s.logger.Info("orchestrator: submission stored", "form", s.form.ID, "submission", res.SubmissionID, "answers", res.AnswersCount)
	if s.onSaveSuccess != nil {
		s.onSaveSuccess(res)
	}
	return res, nil
}

type pendingUpload struct {
	questionID string
	upload     answers.Upload
}

func (s *Session) pendingUploads() []pendingUpload {
	var out []pendingUpload
	for _, q := range s.questions {
		if q.Type != model.QuestionTypeFile || !s.visible.Has(q.ID) {
			continue
		}
		rec, ok := s.store.Get(q.ID)
		if !ok || rec.File == nil {
			continue
		}
		out = append(out, pendingUpload{questionID: q.ID, upload: *rec.File})
	}
	return out
}

func (s *Session) upload(ctx context.Context, p pendingUpload) error {
	if s.uploader == nil {
		return ErrNoUploader
	}
	url, err := s.uploader.UploadFile(ctx, p.upload)
	s.observe(func(o Observer) { o.UploadFinished(err == nil) })
	if err != nil {
		return fmt.Errorf("orchestrator: upload %s: %w", p.questionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Keep a file attached after the upload started.
	if rec, ok := s.store.Get(p.questionID); ok && rec.File != nil && rec.File.Name == p.upload.Name {
		s.store.SetFile(p.questionID, url, p.upload.Name)
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.logger.Error("orchestrator: save failed", "form", s.form.ID, "error", err)
	if s.onSaveError != nil {
		s.onSaveError(err)
	}
	return err
}

func (s *Session) observe(fn func(Observer)) {
	if s.observer != nil {
		fn(s.observer)
	}
}
