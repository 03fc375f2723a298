package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	formdisplay "github.com/goliatone/go-formdisplay"
	"github.com/goliatone/go-formdisplay/pkg/render"
	"github.com/goliatone/go-formdisplay/pkg/renderers/html"
)

type renderFlags struct {
	form         formFlags
	renderer     string
	readOnly     bool
	theme        string
	variant      string
	inlineStyles bool
	action       string
	ids          []string
	output       string
	watch        bool
	validate     bool
}

func newRenderCmd(a *app) *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form as HTML or terminal text",
		Long: `Render the visible questions with their answers. The html renderer
produces an editable form (or an answer sheet with --read-only) styled with
one of the brand themes; the tui renderer prints "label: answer" lines.

With --watch the form and answers files are watched and the output is
rewritten on every change until interrupted.

Examples:
  formdisplay render --form form.yaml --answers answers.json --out form.html
  formdisplay render --form form.yaml --read-only --theme visitpetra --locale ar
  formdisplay render --form form.yaml --renderer tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.renderers(rf)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(rf.renderer)
			if err != nil {
				return err
			}
			run := func(ctx context.Context) error {
				return a.renderOnce(ctx, renderer, rf, cmd.OutOrStdout())
			}
			if err := run(cmd.Context()); err != nil {
				return err
			}
			if !rf.watch {
				return nil
			}
			if rf.form.form == "" {
				return fmt.Errorf("--watch needs a --form file")
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return watchFiles(ctx, a.logger, []string{rf.form.form, rf.form.answers}, func() {
				if err := run(ctx); err != nil {
					a.logger.Error("render failed", "error", err)
					return
				}
				a.logger.Info("rendered", "form", rf.form.form, "out", rf.output)
			})
		},
	}
	rf.form.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&rf.renderer, "renderer", "r", "html", "renderer: html, tui")
	flags.BoolVar(&rf.readOnly, "read-only", false, "render answers instead of inputs")
	flags.StringVar(&rf.theme, "theme", "", "brand theme (default from config)")
	flags.StringVar(&rf.variant, "variant", "", "theme variant")
	flags.BoolVar(&rf.inlineStyles, "inline-styles", false, "embed the stylesheet in the page")
	flags.StringVar(&rf.action, "action", "", "form action URL; adds a submit button")
	flags.StringSliceVar(&rf.ids, "question", nil, "render only these question ids")
	flags.StringVarP(&rf.output, "out", "o", "", "output file (stdout if empty)")
	flags.BoolVarP(&rf.watch, "watch", "w", false, "re-render when the form or answers change")
	flags.BoolVar(&rf.validate, "validate", false, "validate first and show the errors")
	return cmd
}

func (a *app) renderers(rf renderFlags) (*render.Registry, error) {
	var opts []html.Option
	if rf.inlineStyles {
		opts = append(opts, html.WithInlineStyles())
	}
	return formdisplay.NewRenderers(opts...)
}

func (a *app) renderOnce(ctx context.Context, renderer render.Renderer, rf renderFlags, stdout io.Writer) error {
	s, err := a.newSession(ctx, rf.form)
	if err != nil {
		return err
	}
	if rf.validate {
		s.Validate()
	}
	themeName := rf.theme
	if themeName == "" {
		themeName = a.cfg.Theme
	}
	themeCfg, err := formdisplay.ThemeConfig(themeName, rf.variant)
	if err != nil {
		return err
	}
	out, err := formdisplay.RenderSession(ctx, renderer, s, formdisplay.RenderOptions{
		ReadOnly: rf.readOnly,
		Theme:    themeCfg,
		Action:   rf.action,
		Subset:   formdisplay.Subset{IDs: rf.ids},
	})
	if err != nil {
		return err
	}
	if rf.output == "" {
		_, err := stdout.Write(out)
		return err
	}
	return os.WriteFile(rf.output, out, 0o644)
}
