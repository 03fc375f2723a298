package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/reference"
	"github.com/goliatone/go-formdisplay/pkg/submission"
	"github.com/goliatone/go-formdisplay/pkg/transport/graphql"
	"github.com/goliatone/go-formdisplay/pkg/validation"
	"github.com/goliatone/go-formdisplay/pkg/validation/script"
	"github.com/goliatone/go-formdisplay/pkg/visibility"
)

var errNoForm = errors.New("either --form or --form-id is required")

// formFlags selects the form and the answers a command works on.
type formFlags struct {
	form         string
	formID       string
	entityID     string
	answers      string
	submissionID string
}

func (f *formFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.form, "form", "f", "", "form schema file (JSON or YAML)")
	flags.StringVar(&f.formID, "form-id", "", "fetch the form from the GraphQL API")
	flags.StringVar(&f.entityID, "entity-id", "", "entity the answers belong to")
	flags.StringVarP(&f.answers, "answers", "a", "", "answers file (JSON answer store) overlaid on stored answers")
	flags.StringVar(&f.submissionID, "submission-id", "", "existing submission to update")
}

func (a *app) loadForm(ctx context.Context, f formFlags) (model.Form, error) {
	switch {
	case f.form != "":
		return model.LoadFile(f.form)
	case f.formID != "":
		return a.graphqlClient().FetchForm(ctx, graphql.FormRequest{FormID: f.formID, EntityID: f.entityID})
	default:
		return model.Form{}, errNoForm
	}
}

func loadAnswers(path string) (*answers.Store, error) {
	store := answers.New()
	if path == "" {
		return store, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return store, nil
}

func (a *app) validators() (*validation.Registry, error) {
	registry := validation.NewRegistry()
	if a.cfg.Validators == "" {
		return registry, nil
	}
	source, err := os.ReadFile(a.cfg.Validators)
	if err != nil {
		return nil, fmt.Errorf("read validators: %w", err)
	}
	set, err := script.Compile(a.cfg.Validators, string(source),
		script.WithTimeout(a.cfg.ScriptTimeout),
		script.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	if err := set.Register(registry); err != nil {
		return nil, err
	}
	a.logger.Debug("loaded script validators", "file", a.cfg.Validators, "questions", set.IDs())
	return registry, nil
}

// newSession loads the form and answers named by f and starts a session
// wired to the configured validators and metrics.
func (a *app) newSession(ctx context.Context, f formFlags, extra ...orchestrator.Option) (*orchestrator.Session, error) {
	form, err := a.loadForm(ctx, f)
	if err != nil {
		return nil, err
	}
	registry, err := a.validators()
	if err != nil {
		return nil, err
	}
	opts, err := a.sessionOptions(f, registry)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(form, append(opts, extra...)...), nil
}

func (a *app) sessionOptions(f formFlags, registry *validation.Registry) ([]orchestrator.Option, error) {
	store, err := loadAnswers(f.answers)
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{
		orchestrator.WithLogger(a.logger),
		orchestrator.WithLocale(a.cfg.Locale),
		orchestrator.WithAnswers(store),
		orchestrator.WithObserver(a.metrics),
		orchestrator.WithEvaluator(visibility.New(
			visibility.WithLogger(a.logger),
			visibility.WithObserver(a.metrics),
		)),
		orchestrator.WithValidator(validation.New(
			validation.WithRegistry(registry),
			validation.WithLogger(a.logger),
			validation.WithObserver(a.metrics),
		)),
		orchestrator.WithEncoder(submission.NewEncoder(
			submission.WithLogger(a.logger),
			submission.WithObserver(a.metrics),
		)),
	}
	if f.entityID != "" {
		opts = append(opts, orchestrator.WithEntityID(f.entityID))
	}
	if f.submissionID != "" {
		opts = append(opts, orchestrator.WithSubmissionID(f.submissionID))
	}
	return opts, nil
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.Timeout}
}

func (a *app) graphqlClient() *graphql.Client {
	return graphql.NewClient(a.cfg.Endpoint,
		graphql.WithToken(a.cfg.Token),
		graphql.WithUploadEndpoint(a.cfg.UploadEndpoint),
		graphql.WithLocale(a.cfg.Locale),
		graphql.WithHTTPClient(a.httpClient()),
		graphql.WithLogger(a.logger),
	)
}

func (a *app) referenceClient() *reference.Client {
	return reference.NewClient(a.cfg.GeoBaseURL,
		reference.WithHTTPClient(a.httpClient()),
		reference.WithLogger(a.logger),
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
