package formdisplay

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/renderers/html"
	"github.com/goliatone/go-formdisplay/pkg/theme"
)

func TestRenderSessionCarriesSessionState(t *testing.T) {
	t.Parallel()

	form, err := LoadForm("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := NewSession(form, orchestrator.WithSubmissionID("sub-4"))
	if err := s.SelectOption("topic", "t-support"); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.Validate()

	r, err := html.New()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	out, err := RenderSession(context.Background(), r, s, RenderOptions{Action: "/save"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)
	for _, want := range []string{
		`name="form_id" value="form-contact"`,
		`name="entity_id" value="ent-9"`,
		`name="submission_id" value="sub-4"`,
		`name="lang" value="en"`,
		`id="fd-order"`,
		`id="fd-email-error"`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in output:\n%s", want, page)
		}
	}
}

func TestNewRenderers(t *testing.T) {
	t.Parallel()

	registry, err := NewRenderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("renderer names mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ThemeConfig(theme.VisitPetra, "")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if cfg.Theme != theme.VisitPetra || cfg.CSSVars["--primary"] != "#dc3545" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := ThemeConfig("nope", ""); !errors.Is(err, theme.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	t.Parallel()

	if _, err := fs.ReadFile(AssetsFS(), html.StylesheetName); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template: %v", err)
	}
}
