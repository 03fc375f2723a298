// Package formdisplay is the top-level entry point for loading a form,
// filling it through a session, and rendering it.
package formdisplay

import (
	"context"
	"fmt"
	"io/fs"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/render"
	"github.com/goliatone/go-formdisplay/pkg/renderers/html"
	"github.com/goliatone/go-formdisplay/pkg/renderers/tui"
	"github.com/goliatone/go-formdisplay/pkg/theme"
)

// RenderOptions aliases render.RenderOptions for callers of RenderHTML.
type RenderOptions = render.RenderOptions

// Subset aliases render.Subset for partial rendering.
type Subset = render.Subset

// Session aliases the orchestrator session.
type Session = orchestrator.Session

// LoadForm reads a JSON or YAML form file.
func LoadForm(path string) (model.Form, error) {
	return model.LoadFile(path)
}

// LoadFormFS reads a form file from fsys.
func LoadFormFS(fsys fs.FS, path string) (model.Form, error) {
	return model.LoadFS(fsys, path)
}

// NewSession starts a session for form.
func NewSession(form model.Form, options ...orchestrator.Option) *orchestrator.Session {
	return orchestrator.New(form, options...)
}

// NewRenderers returns a registry holding the html and tui renderers.
func NewRenderers(options ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	if err := registry.Register(tui.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderHTML renders form with the embedded HTML templates.
func RenderHTML(ctx context.Context, form model.Form, opts RenderOptions, options ...html.Option) ([]byte, error) {
	r, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, form, opts)
}

// RenderSession renders the current state of s: its answers, visible set,
// errors, and identity fields.
func RenderSession(ctx context.Context, renderer render.Renderer, s *orchestrator.Session, opts RenderOptions) ([]byte, error) {
	form := s.Form()
	visible := s.Visible()
	opts.Answers = s.Store()
	opts.Visible = &visible
	opts.Errors = s.Errors()
	if opts.Locale == "" {
		opts.Locale = s.Locale()
	}
	opts.Hidden = append(render.SessionFields(form.ID, s.EntityID(), s.SubmissionID(), opts.Locale), opts.Hidden...)
	return renderer.Render(ctx, form, opts)
}

// ThemeConfig resolves one of the built-in brand themes for RenderOptions.
func ThemeConfig(name, variant string) (*gotheme.RendererConfig, error) {
	selector, err := theme.NewSelector(theme.Default, "")
	if err != nil {
		return nil, err
	}
	sel, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("formdisplay: %w", err)
	}
	return theme.RendererConfig(sel, nil), nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the default stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formdisplay.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
