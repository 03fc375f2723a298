package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/render"
)

// Renderer prints a form's answers for the terminal. Interactive filling is
// done by Filler; Renderer is the read-only counterpart.
type Renderer struct {
	cfg    config
	policy *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. Pretty text is the default output.
func New(options ...Option) *Renderer {
	return &Renderer{
		cfg:    newConfig(options),
		policy: bluemonday.StrictPolicy(),
	}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.cfg.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain"
}

type answerLine struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// Render lists every visible question with its answer.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.ReadOnly = true
	view := render.BuildView(form, opts)

	if r.cfg.outputFormat == OutputFormatJSON {
		lines := make([]answerLine, 0, len(view.Questions))
		for _, q := range view.Questions {
			if q.DisplayOnly {
				continue
			}
			lines = append(lines, answerLine{ID: q.ID, Label: q.Label, Answer: q.Display, Error: q.Error})
		}
		out, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode answers: %w", err)
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	if view.Title != "" {
		fmt.Fprintln(&buf, view.Title)
	}
	for _, q := range view.Questions {
		label := r.policy.Sanitize(q.Label)
		if q.DisplayOnly {
			fmt.Fprintln(&buf, r.cfg.theme.InfoPrefix+label)
			continue
		}
		answer := q.Display
		if strings.TrimSpace(answer) == "" {
			answer = view.NoAnswer
		}
		fmt.Fprintf(&buf, "%s: %s\n", label, answer)
		if q.Error != "" {
			fmt.Fprintf(&buf, "  %s%s\n", r.cfg.theme.ErrorPrefix, q.Error)
		}
	}
	return buf.Bytes(), nil
}
