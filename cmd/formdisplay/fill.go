package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/renderers/tui"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		f       formFlags
		offline bool
		submit  bool
		rounds  int
		output  string
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form in the terminal",
		Long: `Ask every visible question in order, re-asking invalid answers. Country
and city questions are offered from the reference API unless --offline is
set. The answers are printed as JSON, or submitted with --submit.

Examples:
  formdisplay fill --form form.yaml --out answers.json
  formdisplay fill --form-id f-1 --entity-id e-1 --submit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var extra []orchestrator.Option
			if !offline {
				extra = append(extra, orchestrator.WithReference(a.referenceClient()))
			}
			if submit {
				client := a.graphqlClient()
				extra = append(extra, orchestrator.WithTransport(client), orchestrator.WithUploader(client))
			}
			s, err := a.newSession(ctx, f, extra...)
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			filler := tui.NewFiller(
				tui.WithPromptDriver(driver),
				tui.WithCorrectionRounds(rounds),
				tui.WithLogger(a.logger),
			)
			if _, err := filler.Fill(ctx, s); err != nil {
				return err
			}

			if submit {
				res, err := s.Submit(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			}
			if output == "" {
				return writeJSON(cmd.OutOrStdout(), s.Store())
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := writeJSON(file, s.Store()); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		},
	}
	f.register(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&offline, "offline", false, "type country and city ids instead of fetching lists")
	flags.BoolVar(&submit, "submit", false, "submit the answers when done")
	flags.IntVar(&rounds, "rounds", 3, "how many times invalid answers are re-asked")
	flags.StringVarP(&output, "out", "o", "", "answers file to write (stdout if empty)")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		f     formFlags
		files map[string]string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit answers to the GraphQL API",
		Long: `Validate the answers, upload attached files, and send the submission
batch. Validation errors are printed and nothing is sent.

Examples:
  formdisplay submit --form-id f-1 --entity-id e-1 --answers answers.json
  formdisplay submit --form form.yaml --answers answers.json --file passport=scan.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client := a.graphqlClient()
			s, err := a.newSession(ctx, f,
				orchestrator.WithTransport(client),
				orchestrator.WithUploader(client),
				orchestrator.WithOnSaveSuccess(func(res submission.Result) {
					a.logger.Info("answers saved", "submission_id", res.SubmissionID, "answers", res.AnswersCount)
				}),
				orchestrator.WithOnSaveError(func(err error) {
					a.logger.Error("save failed", "error", err)
				}),
			)
			if err != nil {
				return err
			}
			for id, path := range files {
				upload, err := readUpload(path)
				if err != nil {
					return err
				}
				if err := s.AttachFile(id, upload); err != nil {
					return err
				}
			}

			res, err := s.Submit(ctx)
			if errors.Is(err, orchestrator.ErrInvalid) {
				for _, issue := range s.Validate().Issues() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", issue.QuestionID, issue.Message)
				}
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	f.register(cmd)
	cmd.Flags().StringToStringVar(&files, "file", nil, "attach a file to a question: id=path (repeatable)")
	return cmd
}

func readUpload(path string) (answers.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return answers.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return answers.Upload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}
