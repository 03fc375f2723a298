package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
)

func newVisibleCmd(a *app) *cobra.Command {
	var f formFlags
	cmd := &cobra.Command{
		Use:   "visible",
		Short: "List the questions visible for a set of answers",
		Long: `Evaluate every question's show/hide conditions against the answers and
print the visible question ids, one per line, in schema order.

Examples:
  formdisplay visible --form form.yaml --answers answers.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			for _, q := range s.Form().Questions {
				if s.IsVisible(q.ID) {
					fmt.Fprintln(cmd.OutOrStdout(), q.ID)
				}
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		f      formFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate answers against a form",
		Long: `Run the required checks and custom validators over the visible questions.
The command exits with an error when any question is invalid.

Examples:
  formdisplay validate --form form.yaml --answers answers.json
  formdisplay validate --form form.yaml --answers answers.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			res := s.Validate()
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				if err := writeJSON(out, res); err != nil {
					return err
				}
			case "text":
				if res.Valid {
					fmt.Fprintln(out, "valid")
				}
				for _, issue := range res.Issues() {
					fmt.Fprintf(out, "%s: %s\n", issue.QuestionID, issue.Message)
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if !res.Valid {
				return orchestrator.ErrInvalid
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")
	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	var (
		f       formFlags
		force   bool
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the submission batch for a set of answers",
		Long: `Validate the answers and print the batch that submit would send. Use
--force to encode invalid answers and --summary to print the per-question
answer summary instead.

Examples:
  formdisplay encode --form form.yaml --answers answers.json
  formdisplay encode --form form.yaml --answers answers.json --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			if res := s.Validate(); !res.Valid && !force {
				for _, issue := range res.Issues() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", issue.QuestionID, issue.Message)
				}
				return orchestrator.ErrInvalid
			}
			if summary {
				return writeJSON(cmd.OutOrStdout(), s.Summary())
			}
			return writeJSON(cmd.OutOrStdout(), s.Batch())
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "encode even when validation fails")
	cmd.Flags().BoolVar(&summary, "summary", false, "print the answer summary instead of the batch")
	return cmd
}
